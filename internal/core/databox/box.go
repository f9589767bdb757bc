package databox

// Box is the polymorphic handle carrying a type tag (a printable,
// stable identifier for the stored type) plus the underlying value.
//
// PRINCIPLES:
// - ISP: four methods, no more
// - DIP: ports and conversions depend on this interface, never on a
//   concrete box type
type Box interface {
	// Type returns the tag of the stored type, e.g. "int", "string",
	// or "int&" for a reference-carrying box.
	Type() string

	// String yields a best-effort rendering of the stored value.
	String() string

	// Raw exposes the stored value (or pointer, for reference boxes)
	// for cross-box copying inside conversions and port updates.
	Raw() any

	// SetRaw overwrites this box's value from another box, copying
	// when the target is copy-assignable and replacing the reference
	// otherwise. Returns ErrNilTarget if the source box's underlying
	// type is incompatible.
	SetRaw(other Box) error
}
