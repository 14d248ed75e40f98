// CLAUDE:SUMMARY Stateless conversion between stored markup, Markdown and structural PDF.
package notebook

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/notebook/notes"
	"github.com/hazyhaar/notebook/pdfexport"
)

// Export modes.
const (
	ModeStructural = "structural"
	ModeRaster     = "raster"
)

// ConvertOptions selects the conversion. To also accepts "pdf"; Title is
// the PDF header title.
type ConvertOptions struct {
	From  string
	To    string
	Title string
}

// Convert parses src in opts.From and writes it to w in opts.To.
func (nb *Notebook) Convert(w io.Writer, src string, opts ConvertOptions) error {
	from, err := notes.ParseFormat(opts.From)
	if err != nil {
		return fmt.Errorf("notebook: convert: %w", err)
	}
	doc := from.Decode(src)

	if strings.EqualFold(opts.To, "pdf") {
		page := pdfexport.Page{
			Header: pdfexport.Header{Title: opts.Title},
			Body:   pdfexport.BuildDocument(doc),
		}
		if err := nb.pdf.Render(w, page); err != nil {
			return fmt.Errorf("notebook: convert: %w", err)
		}
		return nil
	}

	to, err := notes.ParseFormat(opts.To)
	if err != nil {
		return fmt.Errorf("notebook: convert: %w", err)
	}
	out, err := to.Encode(doc)
	if err != nil {
		return fmt.Errorf("notebook: convert: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// ExportPDFFile exports note id to path in mode, removing the file when the
// export fails.
func (nb *Notebook) ExportPDFFile(ctx context.Context, id, mode, path string) (int64, error) {
	var export func(context.Context, string, io.Writer) error
	switch mode {
	case "", ModeStructural:
		export = nb.ExportPDF
	case ModeRaster:
		export = nb.ExportRaster
	default:
		return 0, fmt.Errorf("notebook: unknown export mode %q", mode)
	}
	return writeFile(path, func(w io.Writer) error { return export(ctx, id, w) })
}

func writeFile(path string, fn func(io.Writer) error) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("notebook: create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("notebook: close %s: %w", path, err)
	}
	return st.Size(), nil
}
