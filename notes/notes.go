// CLAUDE:SUMMARY Note, Tag and Preferences types, the Repository contract, error taxonomy and tag resolution.
// Package notes holds the note records the editor works on and the editing
// Session that loads a body into a rich document, applies commands to it and
// writes it back.
package notes

import (
	"context"
	"errors"
	"fmt"
)

// Note is a persisted note. Body holds the serialized document in the
// session's Format.
type Note struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	TagIDs    []string `json:"tag_ids,omitempty"`
	UpdatedAt int64    `json:"updated_at"`
}

// Tag is a label notes reference by id.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Preferences are per-note display settings applied on export.
// Empty fields fall back to the exporter's configuration.
type Preferences struct {
	Background string `json:"background,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
}

// Repository is the persistence collaborator. GetNote returns (nil, nil)
// when the note does not exist.
type Repository interface {
	GetNote(ctx context.Context, id string) (*Note, error)
	SaveNote(ctx context.Context, n *Note) error
	ListTags(ctx context.Context) ([]Tag, error)
	GetPreferences(ctx context.Context, noteID string) (Preferences, error)
}

// ErrNotFound is returned when a note id is unknown.
var ErrNotFound = errors.New("notes: not found")

// ValidationError rejects a submit before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("notes: invalid %s: %s", e.Field, e.Reason)
}

// ErrEmptyTitle is returned by Submit when the title is blank.
var ErrEmptyTitle = &ValidationError{Field: "title", Reason: "must not be empty"}

// StorageError wraps every failure reported by the Repository.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "notes: storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// ResolveTags maps ids to tags from catalog, keeping the order of ids.
// Ids with no tag in the catalog are dropped.
func ResolveTags(ids []string, catalog []Tag) []Tag {
	byID := make(map[string]Tag, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}
	var out []Tag
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
