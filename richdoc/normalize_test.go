package richdoc

import "testing"

func TestNormalizeMergesRuns(t *testing.T) {
	d := New(NewParagraph(NewText("a", Bold()), NewText("b", Bold()), NewText(""), NewText("c")))
	p := d.Blocks()[0]
	if len(p.Content) != 2 {
		t.Fatalf("runs = %d, want 2", len(p.Content))
	}
	if p.Content[0].Text != "ab" || !p.Content[0].Marks.Has(MarkBold) {
		t.Errorf("first run = %+v", p.Content[0])
	}
}

func TestNormalizeStrayText(t *testing.T) {
	d := New(NewText("loose"))
	b := d.Blocks()
	if len(b) != 1 || b[0].Kind != KindParagraph || b[0].PlainText() != "loose" {
		t.Fatalf("blocks = %+v", b)
	}
}

func TestNormalizeCodeBlock(t *testing.T) {
	code := &Node{Kind: KindCodeBlock, Align: AlignCenter, Content: []*Node{
		NewText("x := ", Bold()), NewText("1"),
	}}
	d := New(code)
	c := d.Blocks()[0]
	if c.Align != AlignDefault {
		t.Error("code blocks carry no alignment")
	}
	if len(c.Content) != 1 || len(c.Content[0].Marks) != 0 || c.Content[0].Text != "x := 1" {
		t.Errorf("code content = %+v", c.Content)
	}
}

func TestNormalizeLists(t *testing.T) {
	d := New(
		NewList(KindBulletList),
		NewList(KindOrderedList, NewParagraph(NewText("wrapped"))),
		NewList(KindBulletList, NewTaskItem(true, NewParagraph(NewText("x")))),
	)
	b := d.Blocks()
	if len(b) != 2 {
		t.Fatalf("blocks = %d, want 2 (empty list dropped)", len(b))
	}
	if b[0].Content[0].Kind != KindListItem {
		t.Error("list child not wrapped into an item")
	}
	if b[1].Content[0].Checked {
		t.Error("checked state survives outside a task list")
	}
}

func TestNormalizeEmptyContainer(t *testing.T) {
	d := New(NewBlockquote())
	q := d.Blocks()[0]
	if len(q.Content) != 1 || q.Content[0].Kind != KindParagraph {
		t.Fatalf("empty blockquote content = %+v", q.Content)
	}
}

func TestNormalizeKeepsShared(t *testing.T) {
	p := NewParagraph(NewText("same"))
	d := New(p)
	if d.Blocks()[0] != p {
		t.Error("already normal node should be kept as is")
	}
}

func TestNormalizeUnknownKind(t *testing.T) {
	d := New(&Node{Kind: Kind(200), Content: []*Node{NewText("rescued")}})
	b := d.Blocks()[0]
	if b.Kind != KindParagraph || b.PlainText() != "rescued" {
		t.Fatalf("unknown kind = %+v", b)
	}
}

func TestHeadingLevelClamped(t *testing.T) {
	if h := NewHeading(7); h.Level != 3 {
		t.Errorf("level = %d, want 3", h.Level)
	}
	if h := NewHeading(0); h.Level != 1 {
		t.Errorf("level = %d, want 1", h.Level)
	}
}
