// Package persistence converts a graph to and from its portable JSON
// form, and provides an optional SQLite-backed store for whole-graph
// snapshots keyed by graph ID.
package persistence

import "errors"

var (
	// ErrClassNotRegistered is returned by FromPortable when a node's
	// class tag has no registered constructor in the target factory.
	ErrClassNotRegistered = errors.New("persistence: node class not registered")

	// ErrGraphNotFound is returned by SQLiteGraphStore.Get when no row
	// matches the requested graph ID.
	ErrGraphNotFound = errors.New("persistence: graph not found")
)
