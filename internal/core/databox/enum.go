package databox

import "strconv"

// Enum holds an integral value alongside a domain-contributed
// enum-to-string map, so an extension module's named constants render
// as their symbolic name rather than a bare integer.
type Enum struct {
	tag   string
	value int
	names map[int]string
}

// NewEnum constructs an enumeration box. tag identifies the enum type
// (e.g. "Color"); names maps each valid value to its display string.
func NewEnum(tag string, value int, names map[int]string) *Enum {
	return &Enum{tag: tag, value: value, names: names}
}

func (b *Enum) Type() string { return b.tag }

func (b *Enum) String() string {
	if name, ok := b.names[b.value]; ok {
		return name
	}
	return strconv.Itoa(b.value)
}

func (b *Enum) Raw() any { return b.value }

func (b *Enum) SetRaw(other Box) error {
	o, ok := other.(*Enum)
	if !ok || o.tag != b.tag {
		return ErrNilTarget
	}
	b.value = o.value
	return nil
}

// Value returns the underlying integral value.
func (b *Enum) Value() int { return b.value }
