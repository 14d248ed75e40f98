// CLAUDE:SUMMARY Notebook orchestrator: wires the SQLite store, editing sessions, Markdown/PDF exporters and MCP tools.
// Package notebook ties the rich note editor together: notes persisted in
// SQLite, editing sessions over rich documents, and the three exports
// (Markdown, structural PDF, rasterized PDF).
//
// Usage:
//
//	nb, err := notebook.New(cfg, logger)
//	defer nb.Close()
//	n, _ := nb.CreateNote(ctx, "Title", "<p>body</p>")
//	s, _ := nb.Open(ctx, n.ID)
//	s.Select(command.All(s.Document()))
//	s.Apply(command.ToggleMark(richdoc.MarkBold))
//	s.Submit(ctx)
//	nb.ExportPDF(ctx, n.ID, w)
//	nb.RegisterMCP(mcpServer)
package notebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/hazyhaar/notebook/idgen"
	"github.com/hazyhaar/notebook/internal/store"
	"github.com/hazyhaar/notebook/markup"
	"github.com/hazyhaar/notebook/notes"
	"github.com/hazyhaar/notebook/pdfexport"
	"github.com/hazyhaar/notebook/rasterexport"
	"github.com/hazyhaar/notebook/richdoc"
)

// Notebook is the main orchestrator.
type Notebook struct {
	store  *store.Store
	format notes.Format
	pdf    *pdfexport.Renderer
	raster *rasterexport.Exporter
	logger *slog.Logger
	config *Config

	mu     sync.Mutex // guards chrome and closed
	chrome *rasterexport.Chrome
	closed bool
}

// ErrClosed is returned by rasterized exports after Close.
var ErrClosed = errors.New("notebook: closed")

// New opens the database and prepares the exporters. Chrome is only
// launched by the first rasterized export.
func New(cfg *Config, logger *slog.Logger) (*Notebook, error) {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	format, err := notes.ParseFormat(cfg.BodyFormat)
	if err != nil {
		return nil, fmt.Errorf("notebook: %w", err)
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("notebook: %w", err)
	}

	exportCfg := cfg.Export
	exportCfg.Logger = logger
	rasterCfg := cfg.Raster
	rasterCfg.Logger = logger

	return &Notebook{
		store:  s,
		format: format,
		pdf:    pdfexport.NewRenderer(exportCfg),
		raster: rasterexport.New(rasterCfg),
		logger: logger,
		config: cfg,
	}, nil
}

// Close releases the browser and the database.
func (nb *Notebook) Close() error {
	nb.mu.Lock()
	nb.closed = true
	c := nb.chrome
	nb.mu.Unlock()
	if c != nil {
		if err := c.Close(); err != nil {
			nb.logger.Warn("notebook: close browser", "error", err)
		}
	}
	return nb.store.Close()
}

// Format returns the body format notes are stored in.
func (nb *Notebook) Format() notes.Format { return nb.format }

// Repository exposes the store to callers driving sessions themselves.
func (nb *Notebook) Repository() notes.Repository { return nb.store }

// CreateNote stores a new note whose body is given in the notebook format.
func (nb *Notebook) CreateNote(ctx context.Context, title, body string) (*notes.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, notes.ErrEmptyTitle
	}
	n := &notes.Note{ID: idgen.Note(), Title: strings.TrimSpace(title), Body: body}
	if err := nb.store.SaveNote(ctx, n); err != nil {
		return nil, &notes.StorageError{Op: "create note", Err: err}
	}
	nb.logger.Info("notebook: note created", "id", n.ID)
	return n, nil
}

// ListNotes returns all notes without bodies, most recent first.
func (nb *Notebook) ListNotes(ctx context.Context) ([]*notes.Note, error) {
	ns, err := nb.store.ListNotes(ctx)
	if err != nil {
		return nil, &notes.StorageError{Op: "list notes", Err: err}
	}
	return ns, nil
}

// DeleteNote removes a note.
func (nb *Notebook) DeleteNote(ctx context.Context, id string) error {
	if err := nb.store.DeleteNote(ctx, id); err != nil {
		return &notes.StorageError{Op: "delete note", Err: err}
	}
	return nil
}

// Open starts an editing session on note id.
func (nb *Notebook) Open(ctx context.Context, id string) (*notes.Session, error) {
	s, err := notes.Open(ctx, nb.store, id, nb.format)
	if err != nil {
		return nil, err
	}
	s.SetLogger(nb.logger)
	return s, nil
}

// AddTag creates a tag in the catalog.
func (nb *Notebook) AddTag(ctx context.Context, label string) (notes.Tag, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return notes.Tag{}, &notes.ValidationError{Field: "label", Reason: "must not be empty"}
	}
	t := notes.Tag{ID: idgen.Tag(), Label: label}
	if err := nb.store.PutTag(ctx, t); err != nil {
		return notes.Tag{}, &notes.StorageError{Op: "put tag", Err: err}
	}
	return t, nil
}

// DeleteTag removes a tag. Notes referencing it are not modified.
func (nb *Notebook) DeleteTag(ctx context.Context, id string) error {
	if err := nb.store.DeleteTag(ctx, id); err != nil {
		return &notes.StorageError{Op: "delete tag", Err: err}
	}
	return nil
}

// SetPreferences stores display preferences for a note.
func (nb *Notebook) SetPreferences(ctx context.Context, noteID string, p notes.Preferences) error {
	if p.Background != "" {
		if _, err := rasterexport.ParseColor(p.Background); err != nil {
			return &notes.ValidationError{Field: "background", Reason: err.Error()}
		}
	}
	if err := nb.store.SavePreferences(ctx, noteID, p); err != nil {
		return &notes.StorageError{Op: "save preferences", Err: err}
	}
	return nil
}

// loaded is a note ready for export.
type loaded struct {
	note  *notes.Note
	doc   *richdoc.Document
	tags  []notes.Tag
	prefs notes.Preferences
}

func (nb *Notebook) load(ctx context.Context, id string) (*loaded, error) {
	n, err := nb.store.GetNote(ctx, id)
	if err != nil {
		return nil, &notes.StorageError{Op: "get note", Err: err}
	}
	if n == nil {
		return nil, fmt.Errorf("notebook: %s: %w", id, notes.ErrNotFound)
	}
	catalog, err := nb.store.ListTags(ctx)
	if err != nil {
		return nil, &notes.StorageError{Op: "list tags", Err: err}
	}
	prefs, err := nb.store.GetPreferences(ctx, id)
	if err != nil {
		return nil, &notes.StorageError{Op: "get preferences", Err: err}
	}
	return &loaded{
		note:  n,
		doc:   nb.format.Decode(n.Body),
		tags:  notes.ResolveTags(n.TagIDs, catalog),
		prefs: prefs,
	}, nil
}

// ExportMarkdown renders note id as Markdown.
func (nb *Notebook) ExportMarkdown(ctx context.Context, id string) (string, error) {
	l, err := nb.load(ctx, id)
	if err != nil {
		return "", err
	}
	return notes.FormatMarkdown.Encode(l.doc)
}

// ExportPDF writes the structural PDF of note id to w.
func (nb *Notebook) ExportPDF(ctx context.Context, id string, w io.Writer) error {
	l, err := nb.load(ctx, id)
	if err != nil {
		return err
	}
	chips := make([]pdfexport.Chip, len(l.tags))
	for i, t := range l.tags {
		chips[i] = pdfexport.Chip{Label: t.Label}
	}
	page := pdfexport.Page{
		Header:     pdfexport.Header{Title: l.note.Title, Tags: chips},
		Body:       pdfexport.BuildDocument(l.doc),
		Background: l.prefs.Background,
		FontFamily: l.prefs.FontFamily,
	}
	if err := nb.pdf.Render(w, page); err != nil {
		return fmt.Errorf("notebook: export pdf %s: %w", id, err)
	}
	return nil
}

// ExportRaster writes the rasterized PDF of note id to w, captured from the
// note view in headless Chrome.
func (nb *Notebook) ExportRaster(ctx context.Context, id string, w io.Writer) error {
	l, err := nb.load(ctx, id)
	if err != nil {
		return err
	}
	labels := make([]string, len(l.tags))
	for i, t := range l.tags {
		labels[i] = t.Label
	}
	family := l.prefs.FontFamily
	if family == "" {
		family = nb.pdf.Config().FontFamily
	}
	v := rasterexport.NoteView{
		Title:      l.note.Title,
		Tags:       labels,
		Body:       markup.Serialize(l.doc),
		Background: l.prefs.Background,
		FontFamily: family,
	}
	c, err := nb.browser()
	if err != nil {
		return err
	}
	return c.ExportView(ctx, nb.raster, id, v, w)
}

func (nb *Notebook) browser() (*rasterexport.Chrome, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	if nb.closed {
		return nil, ErrClosed
	}
	if nb.chrome == nil {
		nb.chrome = rasterexport.NewChrome(nb.config.Raster.Browser, nb.logger)
	}
	return nb.chrome, nil
}
