package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/notebook"
	"github.com/hazyhaar/notebook/guard"
	"github.com/hazyhaar/notebook/idgen"
)

var (
	exportMode string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a note to PDF",
	Long: `Export a note to PDF. The structural mode lays the content out as text
and is selectable; the raster mode captures the rendered note in headless
Chrome and keeps its exact look.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idgen.Parse(args[0])
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			if err := guard.ValidateID(id); err != nil {
				return err
			}
			out = id + ".pdf"
		}
		n, err := nb.ExportPDFFile(cmd.Context(), id, exportMode, out)
		if err != nil {
			return err
		}
		logger.Info("notebook: exported", "id", id, "mode", exportMode, "path", out, "bytes", n)
		return nil
	},
}

var markdownCmd = &cobra.Command{
	Use:   "markdown <id>",
	Short: "Print a note as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := idgen.Parse(args[0])
		if err != nil {
			return err
		}
		md, err := nb.ExportMarkdown(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Print(md)
		return nil
	},
}

var (
	convertFrom  string
	convertTo    string
	convertOut   string
	convertTitle string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a file between html, markdown and pdf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		w := os.Stdout
		if convertOut != "" {
			f, err := os.Create(convertOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		} else if convertTo == "pdf" {
			return fmt.Errorf("convert: pdf output needs -o")
		}
		return nb.Convert(w, string(src), notebook.ConvertOptions{
			From:  convertFrom,
			To:    convertTo,
			Title: convertTitle,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportMode, "mode", notebook.ModeStructural, "export mode: structural or raster")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default <id>.pdf)")

	convertCmd.Flags().StringVar(&convertFrom, "from", "html", "input format: html or markdown")
	convertCmd.Flags().StringVar(&convertTo, "to", "markdown", "output format: html, markdown or pdf")
	convertCmd.Flags().StringVarP(&convertOut, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "PDF header title")

	rootCmd.AddCommand(exportCmd, markdownCmd, convertCmd)
}
