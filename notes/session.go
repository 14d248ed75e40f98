// CLAUDE:SUMMARY Editing session: load a note body into a document, apply commands, validate and save on submit.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/notebook/command"
	"github.com/hazyhaar/notebook/markdown"
	"github.com/hazyhaar/notebook/markup"
	"github.com/hazyhaar/notebook/richdoc"
)

// Format is the serialization of a note body.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "html", "markdown" and "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("notes: unknown format %q", s)
}

// Decode parses a body in format f. It never fails.
func (f Format) Decode(body string) *richdoc.Document {
	if f == FormatMarkdown {
		return markdown.Parse(body)
	}
	return markup.Parse(body)
}

// Encode serializes d in format f.
func (f Format) Encode(d *richdoc.Document) (string, error) {
	if f == FormatMarkdown {
		return markdown.Render(d)
	}
	return markup.Serialize(d), nil
}

// Session edits one note. The note is read once on Open and written only by
// Submit. A Session is not safe for concurrent use.
type Session struct {
	repo   Repository
	format Format
	logger *slog.Logger

	note  Note
	doc   *richdoc.Document
	sel   command.Selection
	dirty bool
}

// Open loads the note id and parses its body.
func Open(ctx context.Context, repo Repository, id string, format Format) (*Session, error) {
	n, err := repo.GetNote(ctx, id)
	if err != nil {
		return nil, &StorageError{Op: "get note", Err: err}
	}
	if n == nil {
		return nil, fmt.Errorf("notes: open %s: %w", id, ErrNotFound)
	}
	return &Session{
		repo:   repo,
		format: format,
		logger: slog.Default(),
		note:   *n,
		doc:    format.Decode(n.Body),
	}, nil
}

// SetLogger replaces the default logger.
func (s *Session) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Note returns the note as loaded, with pending title and tag changes.
// Body is the stored body until Submit.
func (s *Session) Note() Note { return s.note }

// Document returns the current document snapshot.
func (s *Session) Document() *richdoc.Document { return s.doc }

// Selection returns the current selection.
func (s *Session) Selection() command.Selection { return s.sel }

// Dirty reports whether anything changed since Open or the last Submit.
func (s *Session) Dirty() bool { return s.dirty }

// Select moves the selection.
func (s *Session) Select(sel command.Selection) { s.sel = sel }

// Apply runs cmds against the current selection.
func (s *Session) Apply(cmds ...command.Command) *richdoc.Document {
	out := command.Apply(s.doc, s.sel, cmds...)
	if !richdoc.Equal(out, s.doc) {
		s.dirty = true
	}
	s.doc = out
	return out
}

// Replace swaps the whole document, as after an external edit.
func (s *Session) Replace(d *richdoc.Document) {
	s.doc = d
	s.dirty = true
}

// IsActive reports q for the current selection.
func (s *Session) IsActive(q command.Query) bool {
	return command.IsActive(s.doc, s.sel, q)
}

// SetTitle changes the pending title.
func (s *Session) SetTitle(title string) {
	if title != s.note.Title {
		s.note.Title = title
		s.dirty = true
	}
}

// SetTags replaces the pending tag ids.
func (s *Session) SetTags(ids []string) {
	s.note.TagIDs = append([]string(nil), ids...)
	s.dirty = true
}

// Tags resolves the pending tag ids against the repository's catalog.
func (s *Session) Tags(ctx context.Context) ([]Tag, error) {
	catalog, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list tags", Err: err}
	}
	return ResolveTags(s.note.TagIDs, catalog), nil
}

// Submit validates the note, serializes the document and saves both.
func (s *Session) Submit(ctx context.Context) error {
	title := strings.TrimSpace(s.note.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	body, err := s.format.Encode(s.doc)
	if err != nil {
		return fmt.Errorf("notes: submit: %w", err)
	}
	n := s.note
	n.Title = title
	n.Body = body
	n.UpdatedAt = time.Now().UnixMilli()
	if err := s.repo.SaveNote(ctx, &n); err != nil {
		s.logger.Warn("notes: save failed", "id", n.ID, "error", err)
		return &StorageError{Op: "save note", Err: err}
	}
	s.note = n
	s.dirty = false
	s.logger.Debug("notes: saved", "id", n.ID, "bytes", len(body))
	return nil
}
