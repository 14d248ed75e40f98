package notebook

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/hazyhaar/notebook/command"
	"github.com/hazyhaar/notebook/notes"
	"github.com/hazyhaar/notebook/richdoc"
)

func testNotebook(t *testing.T, format string) *Notebook {
	t.Helper()
	nb, err := New(&Config{
		DBPath:     filepath.Join(t.TempDir(), "nb.db"),
		BodyFormat: format,
		OutputDir:  t.TempDir(),
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { nb.Close() })
	return nb
}

func pageCount(t *testing.T, pdf []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	return n
}

func TestEditExportFlow(t *testing.T) {
	nb := testNotebook(t, "html")
	ctx := context.Background()

	n, err := nb.CreateNote(ctx, "Groceries", "<p>Milk and eggs</p>")
	if err != nil {
		t.Fatal(err)
	}
	tag, err := nb.AddTag(ctx, "home")
	if err != nil {
		t.Fatal(err)
	}

	s, err := nb.Open(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	s.Select(command.Select(0, 4))
	s.Apply(command.ToggleMark(richdoc.MarkBold))
	s.Select(command.Cursor(0))
	s.Apply(command.ToggleBlock(richdoc.KindBulletList, 0))
	s.SetTags([]string{tag.ID})
	if err := s.Submit(ctx); err != nil {
		t.Fatal(err)
	}

	md, err := nb.ExportMarkdown(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "**Milk**") || !strings.Contains(md, "- ") {
		t.Errorf("markdown = %q", md)
	}

	var buf bytes.Buffer
	if err := nb.ExportPDF(ctx, n.ID, &buf); err != nil {
		t.Fatal(err)
	}
	if got := pageCount(t, buf.Bytes()); got != 1 {
		t.Errorf("pages = %d, want 1", got)
	}
}

func TestExportMissingNote(t *testing.T) {
	nb := testNotebook(t, "")
	_, err := nb.ExportMarkdown(context.Background(), "note_missing")
	if !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCloseWhileBrowserStarts(t *testing.T) {
	// WHAT: Close and the lazy browser start never race, and no browser is
	// handed out once closed.
	// WHY: run with -race; Close used to read the browser field unguarded.
	nb, err := New(&Config{DBPath: filepath.Join(t.TempDir(), "nb.db")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nb.browser()
		}()
	}
	if err := nb.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	wg.Wait()
	if _, err := nb.browser(); !errors.Is(err, ErrClosed) {
		t.Errorf("browser after Close: err = %v, want ErrClosed", err)
	}
}

func TestCreateNoteValidation(t *testing.T) {
	nb := testNotebook(t, "")
	if _, err := nb.CreateNote(context.Background(), " ", "x"); !errors.Is(err, notes.ErrEmptyTitle) {
		t.Errorf("err = %v", err)
	}
	if _, err := nb.AddTag(context.Background(), ""); err == nil {
		t.Error("expected error for empty tag label")
	}
}

func TestPreferencesApplied(t *testing.T) {
	nb := testNotebook(t, "")
	ctx := context.Background()
	n, _ := nb.CreateNote(ctx, "T", "<p>x</p>")

	if err := nb.SetPreferences(ctx, n.ID, notes.Preferences{Background: "not-a-color"}); err == nil {
		t.Fatal("expected validation error")
	}
	if err := nb.SetPreferences(ctx, n.ID, notes.Preferences{Background: "#fdf6e3", FontFamily: "serif"}); err != nil {
		t.Fatal(err)
	}
	l, err := nb.load(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if l.prefs.Background != "#fdf6e3" || l.prefs.FontFamily != "serif" {
		t.Errorf("prefs = %+v", l.prefs)
	}
	var buf bytes.Buffer
	if err := nb.ExportPDF(ctx, n.ID, &buf); err != nil {
		t.Fatal(err)
	}
}

func TestDeletedTagDroppedFromExport(t *testing.T) {
	nb := testNotebook(t, "")
	ctx := context.Background()
	a, _ := nb.AddTag(ctx, "a")
	b, _ := nb.AddTag(ctx, "b")
	n, _ := nb.CreateNote(ctx, "T", "<p>x</p>")
	s, _ := nb.Open(ctx, n.ID)
	s.SetTags([]string{a.ID, b.ID})
	s.Submit(ctx)

	if err := nb.DeleteTag(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	l, err := nb.load(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.tags) != 1 || l.tags[0].Label != "b" {
		t.Errorf("tags = %v", l.tags)
	}
	if len(l.note.TagIDs) != 2 {
		t.Errorf("note tag ids = %v, want untouched", l.note.TagIDs)
	}
}

func TestMarkdownBodyFormat(t *testing.T) {
	nb := testNotebook(t, "markdown")
	ctx := context.Background()
	n, _ := nb.CreateNote(ctx, "T", "## Plan\n\n- [x] done\n- [ ] todo\n")
	s, err := nb.Open(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	blocks := s.Document().Blocks()
	if len(blocks) != 2 || blocks[1].Kind != richdoc.KindTaskList {
		t.Fatalf("blocks = %d", len(blocks))
	}
}

func TestConvert(t *testing.T) {
	nb := testNotebook(t, "")

	var md strings.Builder
	if err := nb.Convert(&md, "<h1>Hi</h1><p><em>there</em></p>", ConvertOptions{From: "html", To: "markdown"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md.String(), "# Hi") || !strings.Contains(md.String(), "*there*") {
		t.Errorf("markdown = %q", md.String())
	}

	var html strings.Builder
	if err := nb.Convert(&html, "**bold**", ConvertOptions{From: "md", To: "html"}); err != nil {
		t.Fatal(err)
	}
	if html.String() != "<p><strong>bold</strong></p>" {
		t.Errorf("html = %q", html.String())
	}

	var pdf bytes.Buffer
	if err := nb.Convert(&pdf, "<p>x</p>", ConvertOptions{From: "html", To: "PDF", Title: "X"}); err != nil {
		t.Fatal(err)
	}
	if pageCount(t, pdf.Bytes()) != 1 {
		t.Error("expected one page")
	}

	if err := nb.Convert(&html, "x", ConvertOptions{From: "html", To: "rtf"}); err == nil {
		t.Error("expected error for rtf")
	}
}

func TestExportPDFFile(t *testing.T) {
	nb := testNotebook(t, "")
	ctx := context.Background()
	n, _ := nb.CreateNote(ctx, "T", "<p>x</p>")
	dir := t.TempDir()

	path := filepath.Join(dir, "out.pdf")
	size, err := nb.ExportPDFFile(ctx, n.ID, "", path)
	if err != nil {
		t.Fatal(err)
	}
	st, err := os.Stat(path)
	if err != nil || st.Size() != size || size == 0 {
		t.Errorf("stat = %v, %v; size %d", st, err, size)
	}

	bad := filepath.Join(dir, "missing.pdf")
	if _, err := nb.ExportPDFFile(ctx, "nope", ModeStructural, bad); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}
	if _, err := nb.ExportPDFFile(ctx, n.ID, "vector", path); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notebook.yaml")
	yaml := `db_path: /tmp/x.db
body_format: markdown
export:
  margin: 40
  font_family: serif
raster:
  margin: 12
  browser:
    viewport_width: 800
`
	os.WriteFile(path, []byte(yaml), 0o644)
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BodyFormat != "markdown" || cfg.Export.Margin != 40 || cfg.Export.FontFamily != "serif" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Raster.Margin != 12 || cfg.Raster.Browser.ViewportWidth != 800 {
		t.Errorf("raster = %+v", cfg.Raster)
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
