// CLAUDE:SUMMARY MCP tools: notebook_list, notebook_export_markdown, notebook_export_pdf, notebook_convert.
package notebook

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/notebook/guard"
	"github.com/hazyhaar/notebook/idgen"
	"github.com/hazyhaar/notebook/kit"
)

// RegisterMCP registers notebook tools on an MCP server.
func (nb *Notebook) RegisterMCP(srv *mcp.Server) {
	nb.registerListTool(srv)
	nb.registerExportMarkdownTool(srv)
	nb.registerExportPDFTool(srv)
	nb.registerConvertTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// outputPath confines a tool-supplied path to the configured output
// directory, creating the directories it needs.
func (nb *Notebook) outputPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path is required")
	}
	full, err := guard.SafePath(nb.config.OutputDir, p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("notebook: mkdir: %w", err)
	}
	return full, nil
}

func (nb *Notebook) register(srv *mcp.Server, tool *mcp.Tool, endpoint kit.Endpoint, decode func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error)) {
	mw := kit.Chain(kit.RequestID(idgen.UUIDv7()), kit.Logging(nb.logger, tool.Name))
	kit.RegisterMCPTool(srv, tool, mw(endpoint), decode)
}

// --- list ---

func (nb *Notebook) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notebook_list",
		Description: "List notes (id, title, last update), most recent first.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		ns, err := nb.ListNotes(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"notes": ns}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	nb.register(srv, tool, endpoint, decode)
}

// --- export markdown ---

type exportMarkdownReq struct {
	ID string `json:"id"`
}

func (nb *Notebook) registerExportMarkdownTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notebook_export_markdown",
		Description: "Render a note as Markdown. Underline, text color, alignment and image size are dropped.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Note ID"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*exportMarkdownReq)
		md, err := nb.ExportMarkdown(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": r.ID, "markdown": md}, nil
	}

	nb.register(srv, tool, endpoint, kit.DecodeArgs[exportMarkdownReq]())
}

// --- export pdf ---

type exportPDFReq struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Mode string `json:"mode"`
}

func (nb *Notebook) registerExportPDFTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notebook_export_pdf",
		Description: "Export a note to a PDF file. Mode 'structural' (default) lays out text; 'raster' captures the rendered note in headless Chrome.",
		InputSchema: inputSchema(map[string]any{
			"id":   map[string]any{"type": "string", "description": "Note ID"},
			"path": map[string]any{"type": "string", "description": "Output file, relative to the output directory"},
			"mode": map[string]any{"type": "string", "enum": []string{ModeStructural, ModeRaster}},
		}, []string{"id", "path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*exportPDFReq)
		path, err := nb.outputPath(r.Path)
		if err != nil {
			return nil, err
		}
		n, err := nb.ExportPDFFile(ctx, r.ID, r.Mode, path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": r.ID, "path": path, "bytes": n}, nil
	}

	nb.register(srv, tool, endpoint, kit.DecodeArgs[exportPDFReq]())
}

// --- convert ---

type convertReq struct {
	Source string `json:"source"`
	From   string `json:"from"`
	To     string `json:"to"`
	Path   string `json:"path"`
	Title  string `json:"title"`
}

func (nb *Notebook) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "notebook_convert",
		Description: "Convert note content between html and markdown, or to a PDF file (to=pdf requires path).",
		InputSchema: inputSchema(map[string]any{
			"source": map[string]any{"type": "string", "description": "Content to convert"},
			"from":   map[string]any{"type": "string", "enum": []string{"html", "markdown"}},
			"to":     map[string]any{"type": "string", "enum": []string{"html", "markdown", "pdf"}},
			"path":   map[string]any{"type": "string", "description": "Output file when to=pdf, relative to the output directory"},
			"title":  map[string]any{"type": "string", "description": "PDF header title"},
		}, []string{"source", "from", "to"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*convertReq)
		opts := ConvertOptions{From: r.From, To: r.To, Title: r.Title}
		if strings.EqualFold(r.To, "pdf") {
			path, err := nb.outputPath(r.Path)
			if err != nil {
				return nil, err
			}
			n, err := writeFile(path, func(w io.Writer) error { return nb.Convert(w, r.Source, opts) })
			if err != nil {
				return nil, err
			}
			return map[string]any{"path": path, "bytes": n}, nil
		}
		var sb strings.Builder
		if err := nb.Convert(&sb, r.Source, opts); err != nil {
			return nil, err
		}
		return map[string]any{"output": sb.String()}, nil
	}

	nb.register(srv, tool, endpoint, kit.DecodeArgs[convertReq]())
}
