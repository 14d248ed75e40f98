package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var newBodyPath string

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a note and print its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body string
		if newBodyPath != "" {
			data, err := os.ReadFile(newBodyPath)
			if err != nil {
				return err
			}
			body = string(data)
		}
		n, err := nb.CreateNote(cmd.Context(), args[0], body)
		if err != nil {
			return err
		}
		fmt.Println(n.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := nb.ListNotes(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ns)
	},
}

func init() {
	newCmd.Flags().StringVarP(&newBodyPath, "body", "b", "", "file holding the note body in the configured format")
	rootCmd.AddCommand(newCmd, listCmd)
}
