package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hazyhaar/notebook/notes"
)

// GetPreferences returns the preferences of a note, zero when none are set.
func (s *Store) GetPreferences(ctx context.Context, noteID string) (notes.Preferences, error) {
	var p notes.Preferences
	err := s.DB.QueryRowContext(ctx, `
		SELECT background, font_family FROM preferences WHERE note_id = ?`, noteID).Scan(
		&p.Background, &p.FontFamily,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return notes.Preferences{}, nil
	}
	return p, err
}

// SavePreferences stores the preferences of an existing note.
func (s *Store) SavePreferences(ctx context.Context, noteID string, p notes.Preferences) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO preferences (note_id, background, font_family) VALUES (?,?,?)
		ON CONFLICT(note_id) DO UPDATE SET background=excluded.background, font_family=excluded.font_family`,
		noteID, p.Background, p.FontFamily,
	)
	return err
}
