package connection

import (
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/identity"
)

// Table is a multimap from source-node UUID to connection records.
//
// PRINCIPLES:
// - thread-safe: every operation is guarded by an internal mutex
// - returned collections are snapshots, safe to iterate while the
//   table mutates concurrently
type Table struct {
	mu          sync.Mutex
	byStartNode map[identity.UUID][]*Connection
}

// NewTable constructs an empty connections table.
func NewTable() *Table {
	return &Table{byStartNode: make(map[identity.UUID][]*Connection)}
}

// Add creates and inserts a new connection.
func (t *Table) Add(startNode identity.UUID, startPort identity.Name, endNode identity.UUID, endPort identity.Name) *Connection {
	conn := New(startNode, startPort, endNode, endPort)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.byStartNode[startNode] = append(t.byStartNode[startNode], conn)
	return conn
}

// RemoveByID removes the connection with the given ID, if present.
func (t *Table) RemoveByID(id identity.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for startNode, conns := range t.byStartNode {
		for i, c := range conns {
			if c.ID.Equal(id) {
				t.byStartNode[startNode] = append(conns[:i], conns[i+1:]...)
				return
			}
		}
	}
}

// RemoveByNode removes every connection whose start OR end node matches
// the given node ID.
func (t *Table) RemoveByNode(node identity.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.byStartNode, node)
	for startNode, conns := range t.byStartNode {
		filtered := conns[:0:0]
		for _, c := range conns {
			if !c.EndNode.Equal(node) {
				filtered = append(filtered, c)
			}
		}
		t.byStartNode[startNode] = filtered
	}
}

// RemovePair removes the first connection found between startNode and
// endNode, regardless of port keys.
func (t *Table) RemovePair(startNode, endNode identity.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	conns, ok := t.byStartNode[startNode]
	if !ok {
		return
	}
	for i, c := range conns {
		if c.EndNode.Equal(endNode) {
			t.byStartNode[startNode] = append(conns[:i], conns[i+1:]...)
			return
		}
	}
}

// Find returns a snapshot of every connection starting at startNode.
func (t *Table) Find(startNode identity.UUID) []*Connection {
	t.mu.Lock()
	defer t.mu.Unlock()
	conns := t.byStartNode[startNode]
	out := make([]*Connection, len(conns))
	copy(out, conns)
	return out
}

// FindByPort returns a snapshot of every connection starting at
// startNode from the given output port key.
func (t *Table) FindByPort(startNode identity.UUID, startPort identity.Name) []*Connection {
	all := t.Find(startNode)
	out := all[:0:0]
	for _, c := range all {
		if c.StartPort.Equal(startPort) {
			out = append(out, c)
		}
	}
	return out
}

// Clear removes every connection.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byStartNode = make(map[identity.UUID][]*Connection)
}

// Size returns the total number of connections in the table.
func (t *Table) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, conns := range t.byStartNode {
		n += len(conns)
	}
	return n
}

// All returns a snapshot of every connection in the table.
func (t *Table) All() []*Connection {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Connection, 0, t.sizeLocked())
	for _, conns := range t.byStartNode {
		out = append(out, conns...)
	}
	return out
}

func (t *Table) sizeLocked() int {
	n := 0
	for _, conns := range t.byStartNode {
		n += len(conns)
	}
	return n
}
