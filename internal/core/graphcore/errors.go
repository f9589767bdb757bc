// Package graphcore implements the directed graph of nodes and
// connections: adding/removing nodes, connecting/disconnecting ports,
// classifying nodes by connectivity, and propagating output data along
// connections as it is produced.
package graphcore

import "errors"

var (
	// ErrNodeNotFound is returned when an operation references a node
	// UUID the graph doesn't hold.
	ErrNodeNotFound = errors.New("graphcore: node not found")

	// ErrPortNotFound is returned when a connect/disconnect operation
	// references a port key the target node doesn't have.
	ErrPortNotFound = errors.New("graphcore: port not found")

	// ErrIncompatibleTypes is returned by ConnectNodes when the output
	// port's type has no path to the input port's type through the
	// shared conversion registry (the case CanConnect reports as false).
	ErrIncompatibleTypes = errors.New("graphcore: incompatible port types")
)
