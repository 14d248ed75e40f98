// CLAUDE:SUMMARY CLI entry point for notebook: note creation, Markdown/PDF export, conversion and the MCP stdio server.
// Command notebook edits and exports rich notes.
//
// Usage:
//
//	notebook new "Title" -b body.html
//	notebook list
//	notebook export <id> --mode structural|raster -o note.pdf
//	notebook markdown <id>
//	notebook convert --from html --to markdown|pdf <file>
//	notebook mcp                        # MCP server on stdio
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
