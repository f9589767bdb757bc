// Package databox implements the engine's polymorphic value container:
// one typed box per value, carrying a stable runtime type tag alongside
// the value it holds.
package databox

import "errors"

var (
	// ErrNilTarget is returned when SetRaw is given a value that cannot
	// be assigned to the box's underlying type.
	ErrNilTarget = errors.New("databox: cannot assign value of incompatible type")
)
