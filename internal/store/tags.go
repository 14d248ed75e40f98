package store

import (
	"context"

	"github.com/hazyhaar/notebook/notes"
)

// PutTag inserts or renames a tag.
func (s *Store) PutTag(ctx context.Context, t notes.Tag) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tags (id, label) VALUES (?,?)
		ON CONFLICT(id) DO UPDATE SET label=excluded.label`,
		t.ID, t.Label,
	)
	return err
}

// ListTags returns the tag catalog ordered by label.
func (s *Store) ListTags(ctx context.Context) ([]notes.Tag, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, label FROM tags ORDER BY label, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notes.Tag
	for rows.Next() {
		var t notes.Tag
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTag removes a tag from the catalog. Notes keep the id.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	return err
}
