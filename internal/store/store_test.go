package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hazyhaar/notebook/notes"
)

func TestNoteCRUD(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	n := &notes.Note{ID: "note-1", Title: "First", Body: "<p>hi</p>", TagIDs: []string{"t2", "t1", "t2"}}
	if err := s.SaveNote(ctx, n); err != nil {
		t.Fatalf("save: %v", err)
	}
	if n.UpdatedAt == 0 {
		t.Error("UpdatedAt not set")
	}

	got, err := s.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("get: got nil")
	}
	if got.Title != "First" || got.Body != "<p>hi</p>" {
		t.Errorf("got %+v", got)
	}
	if len(got.TagIDs) != 2 || got.TagIDs[0] != "t2" || got.TagIDs[1] != "t1" {
		t.Errorf("TagIDs = %v, want [t2 t1]", got.TagIDs)
	}

	// Update replaces body and tags.
	got.Body = "<p>bye</p>"
	got.TagIDs = []string{"t1"}
	got.UpdatedAt = 0
	if err := s.SaveNote(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := s.GetNote(ctx, "note-1")
	if again.Body != "<p>bye</p>" || len(again.TagIDs) != 1 {
		t.Errorf("after update: %+v", again)
	}

	list, err := s.ListNotes(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %d notes", err, len(list))
	}

	if err := s.DeleteNote(ctx, "note-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := s.GetNote(ctx, "note-1")
	if err != nil || gone != nil {
		t.Errorf("after delete: %v, %v", gone, err)
	}
	var refs int
	s.DB.QueryRow(`SELECT COUNT(*) FROM note_tags`).Scan(&refs)
	if refs != 0 {
		t.Errorf("note_tags rows = %d, want 0", refs)
	}
}

func TestDeleteTagKeepsNotes(t *testing.T) {
	// WHAT: deleting a tag does not touch notes referencing it.
	// WHY: readers filter dangling ids through notes.ResolveTags.
	s := OpenMemory(t)
	ctx := context.Background()

	s.PutTag(ctx, notes.Tag{ID: "t1", Label: "work"})
	s.PutTag(ctx, notes.Tag{ID: "t2", Label: "home"})
	s.SaveNote(ctx, &notes.Note{ID: "n", Title: "N", TagIDs: []string{"t1", "t2"}})

	if err := s.DeleteTag(ctx, "t1"); err != nil {
		t.Fatalf("delete tag: %v", err)
	}
	n, _ := s.GetNote(ctx, "n")
	if len(n.TagIDs) != 2 {
		t.Fatalf("TagIDs = %v, want both ids kept", n.TagIDs)
	}
	catalog, err := s.ListTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	resolved := notes.ResolveTags(n.TagIDs, catalog)
	if len(resolved) != 1 || resolved[0].Label != "home" {
		t.Errorf("resolved = %v", resolved)
	}
}

func TestPutTagRenames(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()
	s.PutTag(ctx, notes.Tag{ID: "t1", Label: "old"})
	s.PutTag(ctx, notes.Tag{ID: "t1", Label: "new"})
	tags, _ := s.ListTags(ctx)
	if len(tags) != 1 || tags[0].Label != "new" {
		t.Errorf("tags = %v", tags)
	}
}

func TestPreferences(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	p, err := s.GetPreferences(ctx, "missing")
	if err != nil || p != (notes.Preferences{}) {
		t.Fatalf("missing prefs = %+v, %v", p, err)
	}

	// Preferences reference an existing note.
	if err := s.SavePreferences(ctx, "missing", notes.Preferences{Background: "#fff"}); err == nil {
		t.Error("expected foreign key error for unknown note")
	}

	s.SaveNote(ctx, &notes.Note{ID: "n", Title: "N"})
	want := notes.Preferences{Background: "#fafafa", FontFamily: "serif"}
	if err := s.SavePreferences(ctx, "n", want); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.GetPreferences(ctx, "n"); got != want {
		t.Errorf("prefs = %+v, want %+v", got, want)
	}
}

func TestIsBusy(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("some other error"), false},
		{errors.New("SQLITE_BUSY"), true},
		{errors.New("database is locked"), true},
		{errors.New("prefix: database table is locked (6)"), true},
	}
	for _, tt := range tests {
		if got := IsBusy(tt.err); got != tt.want {
			t.Errorf("IsBusy(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()
	s.SaveNote(ctx, &notes.Note{ID: "n", Title: "T", Body: "<p>Hello</p>"})

	sess, err := notes.Open(ctx, s, "n", notes.FormatHTML)
	if err != nil {
		t.Fatal(err)
	}
	sess.SetTitle("Renamed")
	if err := sess.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetNote(ctx, "n")
	if got.Title != "Renamed" || got.Body != "<p>Hello</p>" {
		t.Errorf("stored %+v", got)
	}
}
