package imageresize

import (
	"errors"
	"testing"

	"github.com/hazyhaar/notebook/richdoc"
)

// doc holds "ab" at [0,2] and an image at 3.
func doc() *richdoc.Document {
	return richdoc.New(
		richdoc.NewParagraph(richdoc.NewText("ab")),
		richdoc.NewImage(richdoc.ImageAttrs{Src: "a.png", Width: 300}),
	)
}

func imageWidth(t *testing.T, d *richdoc.Document) (int, int) {
	t.Helper()
	l, ok := d.ImageAt(3)
	if !ok {
		t.Fatal("image missing")
	}
	return l.Node.Image.Width, l.Node.Image.Height
}

func TestResizeDrag(t *testing.T) {
	d := doc()
	var r Resizer
	if err := r.Focus(d, 3); err != nil {
		t.Fatal(err)
	}
	if r.State() != Selected {
		t.Fatalf("state = %s", r.State())
	}
	if err := r.PressHandle(100); err != nil {
		t.Fatal(err)
	}
	if w, _ := r.Drag(180); w != 380 {
		t.Errorf("drag width = %d, want 380", w)
	}
	if w, _ := r.Drag(-400); w != richdoc.MinImageWidth {
		t.Errorf("drag width = %d, want clamp %d", w, richdoc.MinImageWidth)
	}
	w, _ := r.Drag(150)
	if got, _ := imageWidth(t, d); got != 300 {
		t.Errorf("document changed during drag: %d", got)
	}

	out, err := r.Release(d)
	if err != nil {
		t.Fatal(err)
	}
	if got, h := imageWidth(t, out); got != w || h != 0 {
		t.Errorf("committed %dx%d, want %dx0", got, h, w)
	}
	if r.State() != Idle {
		t.Errorf("state after release = %s", r.State())
	}
}

func TestResizerInvalidTransitions(t *testing.T) {
	d := doc()
	var r Resizer
	if err := r.PressHandle(0); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("press from idle = %v", err)
	}
	if _, err := r.Drag(10); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("drag from idle = %v", err)
	}
	if out, err := r.Release(d); !errors.Is(err, ErrInvalidTransition) || out != d {
		t.Errorf("release from idle = %v", err)
	}
	if err := r.Focus(d, 1); !errors.Is(err, ErrNoImage) {
		t.Errorf("focus on text = %v", err)
	}
	_ = r.Focus(d, 3)
	_ = r.PressHandle(0)
	if err := r.Blur(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("blur while resizing = %v", err)
	}
	if r.State() != Resizing {
		t.Errorf("state changed by invalid event: %s", r.State())
	}
}

func TestDialogSave(t *testing.T) {
	d := doc()
	g, err := OpenDialog(d, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width != 300 || g.Height != 0 || g.State() != DialogOpen {
		t.Fatalf("dialog = %+v", g)
	}
	_ = g.SetWidth(5000)
	_ = g.SetHeight(10)
	if g.Width != DialogMax || g.Height != DialogMin {
		t.Errorf("clamped to %dx%d", g.Width, g.Height)
	}
	out, err := g.Save(d)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := imageWidth(t, out); w != DialogMax || h != DialogMin {
		t.Errorf("saved %dx%d", w, h)
	}
	if err := g.SetWidth(100); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("edit after save = %v", err)
	}
}

func TestDialogAutoHeightAndCancel(t *testing.T) {
	d := richdoc.New(richdoc.NewImage(richdoc.ImageAttrs{Src: "a.png", Width: 300, Height: 200}))
	g, _ := OpenDialog(d, 0)
	_ = g.SetHeight(0)
	out, _ := g.Save(d)
	l, _ := out.ImageAt(0)
	if l.Node.Image.Height != 0 || !l.Node.Image.AutoHeight() {
		t.Errorf("height = %d, want auto", l.Node.Image.Height)
	}

	g, _ = OpenDialog(d, 0)
	_ = g.SetWidth(80)
	if err := g.Cancel(); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Save(d); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("save after cancel = %v", err)
	}
}
