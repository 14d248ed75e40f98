package store

// Schema contains the DDL for the notebook tables.
const Schema = `
CREATE TABLE IF NOT EXISTS notes (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    body       TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC);

CREATE TABLE IF NOT EXISTS tags (
    id    TEXT PRIMARY KEY,
    label TEXT NOT NULL
);

-- tag_id has no foreign key: deleting a tag leaves notes untouched and
-- readers drop the dangling id.
CREATE TABLE IF NOT EXISTS note_tags (
    note_id  TEXT NOT NULL,
    tag_id   TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (note_id, tag_id),
    FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS preferences (
    note_id     TEXT PRIMARY KEY,
    background  TEXT NOT NULL DEFAULT '',
    font_family TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
);
`
