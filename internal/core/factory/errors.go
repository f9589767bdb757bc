// Package factory builds nodes from registered class names and owns
// the type conversion registry the rest of the engine shares through
// it.
package factory

import "errors"

var (
	// ErrClassNotRegistered is returned by Create when class_name has
	// no registered constructor.
	ErrClassNotRegistered = errors.New("factory: node class not registered")

	// ErrClassAlreadyRegistered is returned by Register when a class
	// name is already bound to a constructor.
	ErrClassAlreadyRegistered = errors.New("factory: node class already registered")
)
