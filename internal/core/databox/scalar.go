package databox

// Value holds a single value of type T by copy — the box variant for
// arithmetic scalars, strings, and any other plain value type.
type Value[T any] struct {
	v T
}

// NewValue constructs a Value box around v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

func (b *Value[T]) Type() string { return TypeTag[T]() }
func (b *Value[T]) String() string {
	return formatValue(b.v)
}
func (b *Value[T]) Raw() any { return b.v }

func (b *Value[T]) SetRaw(other Box) error {
	switch o := other.(type) {
	case *Value[T]:
		b.v = o.v
		return nil
	case *Ref[T]:
		if o.ptr == nil {
			return ErrNilTarget
		}
		b.v = *o.ptr
		return nil
	default:
		return ErrNilTarget
	}
}

// Get returns the underlying value.
func (b *Value[T]) Get() T { return b.v }

// Set overwrites the underlying value.
func (b *Value[T]) Set(v T) { b.v = v }

// Ref holds a pointer to a live T — the box variant for reference
// (required) input ports and mutable out-parameters. SetRaw copies
// into the pointee rather than replacing the pointer, so callers that
// captured the pointer see the update in place.
type Ref[T any] struct {
	ptr *T
}

// NewRef wraps a live pointer as a reference data box.
func NewRef[T any](ptr *T) *Ref[T] {
	return &Ref[T]{ptr: ptr}
}

func (b *Ref[T]) Type() string { return TypeTag[T]() + "&" }
func (b *Ref[T]) String() string {
	if b.ptr == nil {
		return "None"
	}
	return formatValue(*b.ptr)
}
func (b *Ref[T]) Raw() any { return b.ptr }

func (b *Ref[T]) SetRaw(other Box) error {
	switch o := other.(type) {
	case *Ref[T]:
		if b.ptr != nil && o.ptr != nil {
			*b.ptr = *o.ptr
			return nil
		}
		b.ptr = o.ptr
		return nil
	case *Value[T]:
		if b.ptr == nil {
			return ErrNilTarget
		}
		*b.ptr = o.v
		return nil
	default:
		return ErrNilTarget
	}
}

// Get dereferences the pointer, returning the zero value if nil.
func (b *Ref[T]) Get() T {
	if b.ptr == nil {
		var zero T
		return zero
	}
	return *b.ptr
}

// Pointer exposes the underlying pointer.
func (b *Ref[T]) Pointer() *T { return b.ptr }
