// CLAUDE:SUMMARY Inline marks (bold, italic, underline, strike, link, text color) and the canonical MarkSet.
package richdoc

import "sort"

// MarkKind identifies an inline mark.
type MarkKind uint8

const (
	MarkBold MarkKind = iota + 1
	MarkItalic
	MarkUnderline
	MarkStrike
	MarkLink
	MarkTextColor
)

var markNames = map[MarkKind]string{
	MarkBold:      "bold",
	MarkItalic:    "italic",
	MarkUnderline: "underline",
	MarkStrike:    "strike",
	MarkLink:      "link",
	MarkTextColor: "textColor",
}

func (k MarkKind) String() string {
	if s, ok := markNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseMarkKind maps a mark name back to its MarkKind.
func ParseMarkKind(s string) (MarkKind, bool) {
	for k, name := range markNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Mark is an inline style applied to a text run.
type Mark struct {
	Kind  MarkKind
	Href  string // link
	Color string // textColor, lowercase CSS color
}

func Bold() Mark              { return Mark{Kind: MarkBold} }
func Italic() Mark            { return Mark{Kind: MarkItalic} }
func Underline() Mark         { return Mark{Kind: MarkUnderline} }
func Strike() Mark            { return Mark{Kind: MarkStrike} }
func Link(href string) Mark   { return Mark{Kind: MarkLink, Href: href} }
func Color(value string) Mark { return Mark{Kind: MarkTextColor, Color: value} }

// MarkSet holds at most one mark per kind, sorted by kind.
// It is treated as a value: methods return new sets.
type MarkSet []Mark

// Has reports whether a mark of kind k is present.
func (s MarkSet) Has(k MarkKind) bool {
	_, ok := s.Get(k)
	return ok
}

// Get returns the mark of kind k.
func (s MarkSet) Get(k MarkKind) (Mark, bool) {
	for _, m := range s {
		if m.Kind == k {
			return m, true
		}
	}
	return Mark{}, false
}

// Add returns a set containing m. A mark of the same kind is replaced, so
// adding an identical mark is a no-op.
func (s MarkSet) Add(m Mark) MarkSet {
	out := make(MarkSet, 0, len(s)+1)
	for _, x := range s {
		if x.Kind != m.Kind {
			out = append(out, x)
		}
	}
	out = append(out, m)
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Remove returns a set without any mark of kind k.
func (s MarkSet) Remove(k MarkKind) MarkSet {
	if !s.Has(k) {
		return s
	}
	out := make(MarkSet, 0, len(s))
	for _, x := range s {
		if x.Kind != k {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Equal compares two sets. nil and empty are equal.
func (s MarkSet) Equal(o MarkSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}
