// Package node implements the engine's unit of computation: a set of
// named input/output ports plus a compute hook, wired to a lifecycle of
// synchronous events.
package node

import "errors"

var (
	// ErrPortNotFound is returned by GetInput/GetOutput when the key is
	// not registered on the node.
	ErrPortNotFound = errors.New("node: port not found")

	// ErrBadPayload is returned by Restore when required fields are
	// missing from the persisted representation.
	ErrBadPayload = errors.New("node: malformed save payload")
)
