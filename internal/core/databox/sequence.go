package databox

import "strings"

// Sequence holds an opaque, ordered list of boxed elements, rendering
// as "[ a, b, c ]".
type Sequence struct {
	tag   string
	items []Box
}

// NewSequence constructs a Sequence box. tag identifies the element
// type (e.g. "[]int").
func NewSequence(tag string, items []Box) *Sequence {
	return &Sequence{tag: tag, items: items}
}

func (b *Sequence) Type() string { return b.tag }

func (b *Sequence) String() string {
	parts := make([]string, len(b.items))
	for i, item := range b.items {
		parts[i] = item.String()
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

func (b *Sequence) Raw() any { return b.items }

func (b *Sequence) SetRaw(other Box) error {
	o, ok := other.(*Sequence)
	if !ok || o.tag != b.tag {
		return ErrNilTarget
	}
	b.items = o.items
	return nil
}

// Items returns the boxed elements.
func (b *Sequence) Items() []Box { return b.items }

// Len returns the number of elements.
func (b *Sequence) Len() int { return len(b.items) }
