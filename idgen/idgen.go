// CLAUDE:SUMMARY Pluggable ID generators: UUIDv7 default with type prefixes for notes and tags.
// Package idgen generates identifiers for notes and tags.
package idgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator of RFC 9562 UUID v7 strings (time-sortable).
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every ID of gen.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Prefixes used by the notebook.
const (
	NotePrefix = "note_"
	TagPrefix  = "tag_"
)

var (
	// Note generates note ids.
	Note = Prefixed(NotePrefix, UUIDv7())
	// Tag generates tag ids.
	Tag = Prefixed(TagPrefix, UUIDv7())
)

// Parse validates an id, with or without one of the known prefixes, and
// returns it unchanged.
func Parse(s string) (string, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, NotePrefix), TagPrefix)
	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("idgen: invalid id %q: %w", s, err)
	}
	return s, nil
}
