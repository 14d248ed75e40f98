package richdoc

import "testing"

func TestUpdateMarksSplitsRuns(t *testing.T) {
	d := New(NewParagraph(NewText("abcdef")))
	got := d.UpdateMarks(2, 4, func(ms MarkSet) MarkSet { return ms.Add(Bold()) })

	runs := got.Blocks()[0].Content
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
	want := []string{"ab", "cd", "ef"}
	for i, r := range runs {
		if r.Text != want[i] {
			t.Errorf("run %d = %q, want %q", i, r.Text, want[i])
		}
	}
	if !runs[1].Marks.Has(MarkBold) || runs[0].Marks.Has(MarkBold) {
		t.Error("bold applied outside [2,4)")
	}
	// The original is untouched.
	if len(d.Blocks()[0].Content) != 1 {
		t.Error("UpdateMarks modified the receiver")
	}
}

func TestUpdateMarksSkipsCode(t *testing.T) {
	d := New(NewCodeBlock("go", "x := 1"))
	got := d.UpdateMarks(0, 6, func(ms MarkSet) MarkSet { return ms.Add(Bold()) })
	if !Equal(d, got) {
		t.Error("code block received marks")
	}
}

func TestSpliceSharesUntouched(t *testing.T) {
	d := twoParas()
	first := d.Blocks()[0]
	got := d.ReplaceNode([]int{1}, NewHeading(2, NewText("World")))
	if got.Blocks()[0] != first {
		t.Error("untouched block was copied")
	}
	if got.Blocks()[1].Kind != KindHeading {
		t.Error("block not replaced")
	}
	if d.Blocks()[1].Kind != KindParagraph {
		t.Error("receiver modified")
	}
}

func TestSpliceInvalidPath(t *testing.T) {
	d := twoParas()
	if got := d.Splice([]int{9}, 0, 1); got != d {
		t.Error("invalid path should return the receiver")
	}
	if got := d.Splice(nil, 1, 0); got != d {
		t.Error("inverted range should return the receiver")
	}
}

func TestWrapUnwrap(t *testing.T) {
	d := twoParas()
	wrapped := d.Wrap(nil, 0, 2, NewBlockquote())
	if b := wrapped.Blocks(); len(b) != 1 || b[0].Kind != KindBlockquote || len(b[0].Content) != 2 {
		t.Fatalf("wrapped = %+v", b)
	}
	back := wrapped.Unwrap([]int{0})
	if !Equal(back, d) {
		t.Error("Unwrap(Wrap(d)) != d")
	}
}

func TestUnwrapListFlattensItems(t *testing.T) {
	d := New(NewList(KindBulletList,
		NewListItem(NewParagraph(NewText("one"))),
		NewListItem(NewParagraph(NewText("two"))),
	))
	got := d.Unwrap([]int{0})
	if b := got.Blocks(); len(b) != 2 || b[0].Kind != KindParagraph || b[1].PlainText() != "two" {
		t.Fatalf("unwrapped = %+v", b)
	}
}

func TestSetImageAttrs(t *testing.T) {
	d := New(NewImage(ImageAttrs{Src: "a.png", Width: 300}))
	got := d.SetImageAttrs(0, ImageAttrs{Src: "a.png", Width: 420, Height: 100})
	img, ok := got.ImageAt(0)
	if !ok || img.Node.Image.Width != 420 || img.Node.Image.Height != 100 {
		t.Fatalf("image = %+v", img.Node.Image)
	}
	if same := got.SetImageAttrs(0, img.Node.Image); same != got {
		t.Error("identical attrs should return the receiver")
	}
}
