package imageresize

import (
	"github.com/hazyhaar/notebook/command"
	"github.com/hazyhaar/notebook/richdoc"
)

// Dialog size limits.
const (
	DialogMin = 50
	DialogMax = 1000
)

// DialogState of a Dialog.
type DialogState int

const (
	DialogOpen DialogState = iota
	DialogEditing
	DialogSaved
	DialogCancelled
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogEditing:
		return "editing"
	case DialogSaved:
		return "saved"
	case DialogCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Dialog edits the size of one image numerically.
type Dialog struct {
	state  DialogState
	id     command.NodeID
	Width  int
	Height int // 0 = auto
}

// OpenDialog starts editing the image at pos with its current size.
func OpenDialog(d *richdoc.Document, pos int) (*Dialog, error) {
	l, ok := d.ImageAt(pos)
	if !ok {
		return nil, ErrNoImage
	}
	return &Dialog{
		state:  DialogOpen,
		id:     command.NodeID(pos),
		Width:  l.Node.Image.ResolvedWidth(),
		Height: l.Node.Image.Height,
	}, nil
}

// State returns the current state.
func (g *Dialog) State() DialogState { return g.state }

func (g *Dialog) editable() bool {
	return g.state == DialogOpen || g.state == DialogEditing
}

func clampDialog(v int) int {
	return min(max(v, DialogMin), DialogMax)
}

// SetWidth enters a width, clamped to [50, 1000].
func (g *Dialog) SetWidth(w int) error {
	if !g.editable() {
		return ErrInvalidTransition
	}
	g.Width = clampDialog(w)
	g.state = DialogEditing
	return nil
}

// SetHeight enters a height, clamped to [50, 1000]. 0 or less means auto.
func (g *Dialog) SetHeight(h int) error {
	if !g.editable() {
		return ErrInvalidTransition
	}
	if h <= 0 {
		g.Height = 0
	} else {
		g.Height = clampDialog(h)
	}
	g.state = DialogEditing
	return nil
}

// Save commits the entered size to d.
func (g *Dialog) Save(d *richdoc.Document) (*richdoc.Document, error) {
	if !g.editable() {
		return d, ErrInvalidTransition
	}
	g.state = DialogSaved
	return command.UpdateImageAttrs(g.id, clampDialog(g.Width), g.Height)(d, command.Selection{}), nil
}

// Cancel closes the dialog without touching the document.
func (g *Dialog) Cancel() error {
	if !g.editable() {
		return ErrInvalidTransition
	}
	g.state = DialogCancelled
	return nil
}
