// CLAUDE:SUMMARY CRUD for notes and their ordered tag references.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hazyhaar/notebook/notes"
)

var _ notes.Repository = (*Store)(nil)

// GetNote retrieves a note by ID. It returns (nil, nil) when missing.
func (s *Store) GetNote(ctx context.Context, id string) (*notes.Note, error) {
	n := &notes.Note{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, title, body, updated_at FROM notes WHERE id = ?`, id).Scan(
		&n.ID, &n.Title, &n.Body, &n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT tag_id FROM note_tags WHERE note_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tid string
		if err := rows.Scan(&tid); err != nil {
			return nil, err
		}
		n.TagIDs = append(n.TagIDs, tid)
	}
	return n, rows.Err()
}

// SaveNote inserts or replaces a note and its tag references.
func (s *Store) SaveNote(ctx context.Context, n *notes.Note) error {
	if n.UpdatedAt == 0 {
		n.UpdatedAt = time.Now().UnixMilli()
	}
	return s.runTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (id, title, body, created_at, updated_at)
			VALUES (?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET title=excluded.title, body=excluded.body, updated_at=excluded.updated_at`,
			n.ID, n.Title, n.Body, n.UpdatedAt, n.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, n.ID); err != nil {
			return err
		}
		seen := make(map[string]bool, len(n.TagIDs))
		for i, tid := range n.TagIDs {
			if seen[tid] {
				continue
			}
			seen[tid] = true
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO note_tags (note_id, tag_id, position) VALUES (?,?,?)`,
				n.ID, tid, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListNotes returns all notes without bodies, most recently updated first.
func (s *Store) ListNotes(ctx context.Context) ([]*notes.Note, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, updated_at FROM notes ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*notes.Note
	for rows.Next() {
		n := &notes.Note{}
		if err := rows.Scan(&n.ID, &n.Title, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteNote removes a note with its tag references and preferences.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return err
}
