package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the notebook tools over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcp.NewServer(&mcp.Implementation{Name: "notebook", Version: version}, nil)
		nb.RegisterMCP(srv)
		logger.Info("notebook: mcp serving on stdio")
		return srv.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
