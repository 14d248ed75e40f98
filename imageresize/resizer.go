// CLAUDE:SUMMARY Image resize interactions: drag-handle state machine and numeric size dialog, both committing through UpdateImageAttrs.
// Package imageresize drives the two ways an image node is resized: a drag
// handle whose width follows the pointer, and a numeric dialog. Both only
// touch the document when the interaction ends, through
// command.UpdateImageAttrs.
package imageresize

import (
	"errors"
	"math"

	"github.com/hazyhaar/notebook/command"
	"github.com/hazyhaar/notebook/richdoc"
)

// ErrInvalidTransition is returned by an event the current state does not
// accept. The state is left unchanged.
var ErrInvalidTransition = errors.New("imageresize: invalid transition")

// ErrNoImage is returned when the position does not hold an image.
var ErrNoImage = errors.New("imageresize: no image at position")

// State of a Resizer.
type State int

const (
	Idle State = iota
	Selected
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Resizing:
		return "resizing"
	}
	return "unknown"
}

// Resizer follows one image through focus, drag and release.
type Resizer struct {
	state  State
	id     command.NodeID
	width  int // current, transient while resizing
	height int // 0 = auto, untouched by dragging

	startX     float64
	startWidth int
}

// State returns the current state.
func (r *Resizer) State() State { return r.state }

// Width returns the displayed width, which differs from the document while
// resizing.
func (r *Resizer) Width() int { return r.width }

// Target returns the image being handled.
func (r *Resizer) Target() command.NodeID { return r.id }

// Focus selects the image at pos. Focusing another image while one is
// selected moves the selection.
func (r *Resizer) Focus(d *richdoc.Document, pos int) error {
	if r.state == Resizing {
		return ErrInvalidTransition
	}
	l, ok := d.ImageAt(pos)
	if !ok {
		return ErrNoImage
	}
	r.state = Selected
	r.id = command.NodeID(pos)
	r.width = l.Node.Image.ResolvedWidth()
	r.height = l.Node.Image.Height
	return nil
}

// Blur deselects the image.
func (r *Resizer) Blur() error {
	if r.state != Selected {
		return ErrInvalidTransition
	}
	*r = Resizer{}
	return nil
}

// PressHandle starts a resize at pointer x.
func (r *Resizer) PressHandle(x float64) error {
	if r.state != Selected {
		return ErrInvalidTransition
	}
	r.state = Resizing
	r.startX = x
	r.startWidth = r.width
	return nil
}

// Drag updates the transient width from the horizontal pointer delta and
// returns it. The document is not modified.
func (r *Resizer) Drag(x float64) (int, error) {
	if r.state != Resizing {
		return 0, ErrInvalidTransition
	}
	r.width = max(richdoc.MinImageWidth, r.startWidth+int(math.Round(x-r.startX)))
	return r.width, nil
}

// Release ends the resize and commits the width to d.
func (r *Resizer) Release(d *richdoc.Document) (*richdoc.Document, error) {
	if r.state != Resizing {
		return d, ErrInvalidTransition
	}
	out := command.UpdateImageAttrs(r.id, r.width, r.height)(d, command.Selection{})
	*r = Resizer{}
	return out, nil
}
