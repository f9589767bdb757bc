// Package connection implements directed edges between node ports and
// the multimap that indexes them by source node.
package connection

import (
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/identity"
)

// Connection is a directed edge from an output port of one node to an
// input port of another.
type Connection struct {
	ID         identity.UUID
	StartNode  identity.UUID
	StartPort  identity.Name
	EndNode    identity.UUID
	EndPort    identity.Name

	mu sync.Mutex
}

// New constructs a connection with a fresh identity.
func New(startNode identity.UUID, startPort identity.Name, endNode identity.UUID, endPort identity.Name) *Connection {
	return &Connection{
		ID:        identity.New(),
		StartNode: startNode,
		StartPort: startPort,
		EndNode:   endNode,
		EndPort:   endPort,
	}
}

// Lock acquires the connection's delivery mutex. Propagation tasks hold
// this for the duration of exactly one datum delivery, so two
// concurrent deliveries on the same edge cannot interleave.
func (c *Connection) Lock() { c.mu.Lock() }

// Unlock releases the connection's delivery mutex.
func (c *Connection) Unlock() { c.mu.Unlock() }
