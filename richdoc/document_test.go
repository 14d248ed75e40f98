package richdoc

import "testing"

func twoParas() *Document {
	return New(
		NewParagraph(NewText("Hello")),
		NewParagraph(NewText("World")),
	)
}

func TestPositions(t *testing.T) {
	d := twoParas()
	if d.Size() != 12 {
		t.Fatalf("Size = %d, want 12", d.Size())
	}
	leaves := d.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("leaves = %d, want 2", len(leaves))
	}
	if leaves[0].Start != 0 || leaves[0].End() != 5 {
		t.Errorf("first leaf = [%d,%d], want [0,5]", leaves[0].Start, leaves[0].End())
	}
	if leaves[1].Start != 6 || leaves[1].End() != 11 {
		t.Errorf("second leaf = [%d,%d], want [6,11]", leaves[1].Start, leaves[1].End())
	}

	l, off, ok := d.Resolve(8)
	if !ok || l.Start != 6 || off != 2 {
		t.Errorf("Resolve(8) = start %d off %d ok %v", l.Start, off, ok)
	}
	if _, _, ok := d.Resolve(99); ok {
		t.Error("Resolve past the end should fail")
	}
}

func TestPositionsWithImage(t *testing.T) {
	d := New(
		NewParagraph(NewText("ab")),
		NewImage(ImageAttrs{Src: "x.png"}),
		NewParagraph(NewText("cd")),
	)
	// ab → [0,2], image → 3, cd → [4,6]
	if d.Size() != 7 {
		t.Fatalf("Size = %d, want 7", d.Size())
	}
	img, ok := d.ImageAt(3)
	if !ok {
		t.Fatal("ImageAt(3) not found")
	}
	if img.Node.Image.Width != DefaultImageWidth {
		t.Errorf("width = %d, want default %d", img.Node.Image.Width, DefaultImageWidth)
	}
	if got := len(d.Touched(0, 6)); got != 3 {
		t.Errorf("Touched(0,6) = %d leaves, want 3", got)
	}
	if got := len(d.Touched(1, 2)); got != 1 {
		t.Errorf("Touched(1,2) = %d leaves, want 1", got)
	}
}

func TestTouchedCollapsed(t *testing.T) {
	d := twoParas()
	got := d.Touched(7, 7)
	if len(got) != 1 || got[0].Node.PlainText() != "World" {
		t.Fatalf("Touched(7,7) = %+v", got)
	}
}

func TestNestedLeaves(t *testing.T) {
	d := New(NewList(KindBulletList,
		NewListItem(NewParagraph(NewText("one"))),
		NewListItem(NewParagraph(NewText("two"))),
	))
	leaves := d.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("leaves = %d", len(leaves))
	}
	if want := []int{0, 1, 0}; !equalPath(leaves[1].Path, want) {
		t.Errorf("path = %v, want %v", leaves[1].Path, want)
	}
	anc := d.Ancestors(leaves[1].Path)
	if len(anc) != 2 || anc[0].Kind != KindBulletList || anc[1].Kind != KindListItem {
		t.Errorf("ancestors = %v", anc)
	}
}

func equalPath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIsEmpty(t *testing.T) {
	if !New().IsEmpty() {
		t.Error("New() should be empty")
	}
	if !New(NewParagraph()).IsEmpty() {
		t.Error("single empty paragraph should be empty")
	}
	if twoParas().IsEmpty() {
		t.Error("twoParas should not be empty")
	}
}

func TestMarkActive(t *testing.T) {
	d := New(NewParagraph(NewText("bold", Bold()), NewText(" plain")))
	if !d.MarkActive(MarkBold, 0, 4) {
		t.Error("bold over [0,4) should be active")
	}
	if d.MarkActive(MarkBold, 0, 6) {
		t.Error("bold over a mixed range should be inactive")
	}
	if d.MarkActive(MarkBold, 2, 2) {
		t.Error("empty range is never active")
	}
}

func TestMarkValue(t *testing.T) {
	d := New(NewParagraph(
		NewText("ab", Link("https://a")),
		NewText("cd", Link("https://b")),
	))
	if m, ok := d.MarkValue(MarkLink, 0, 2); !ok || m.Href != "https://a" {
		t.Errorf("MarkValue(0,2) = %v, %v", m, ok)
	}
	if _, ok := d.MarkValue(MarkLink, 0, 4); ok {
		t.Error("two different links should not share a value")
	}
}
