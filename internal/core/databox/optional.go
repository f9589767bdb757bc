package databox

// Optional wraps a possibly-absent value, rendering "None" when empty.
type Optional[T any] struct {
	v *T
}

// NewOptional constructs an Optional box. A nil ptr represents absence.
func NewOptional[T any](ptr *T) *Optional[T] {
	return &Optional[T]{v: ptr}
}

// NewOptionalValue constructs a present Optional box from a value.
func NewOptionalValue[T any](v T) *Optional[T] {
	return &Optional[T]{v: &v}
}

func (b *Optional[T]) Type() string { return "optional<" + TypeTag[T]() + ">" }

func (b *Optional[T]) String() string {
	if b.v == nil {
		return "None"
	}
	return formatValue(*b.v)
}

func (b *Optional[T]) Raw() any { return b.v }

func (b *Optional[T]) SetRaw(other Box) error {
	o, ok := other.(*Optional[T])
	if !ok {
		return ErrNilTarget
	}
	b.v = o.v
	return nil
}

// HasValue reports whether the optional carries a value.
func (b *Optional[T]) HasValue() bool { return b.v != nil }

// Get dereferences the value, returning the zero value if absent.
func (b *Optional[T]) Get() T {
	if b.v == nil {
		var zero T
		return zero
	}
	return *b.v
}
