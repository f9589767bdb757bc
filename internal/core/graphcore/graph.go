package graphcore

import (
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/connection"
	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/eventbus"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/internal/core/node"
	"github.com/flowgraph/flowgraph/internal/core/port"
	"github.com/flowgraph/flowgraph/internal/platform/logging"
	"github.com/flowgraph/flowgraph/internal/platform/metrics"
)

// Graph holds a set of nodes and the connections between their ports,
// and drives propagation of output data along those connections.
//
// PRINCIPLES:
// - SRP: node/connection bookkeeping and propagation only, no
//   knowledge of how a node computes or how the pool schedules tasks
// - thread-safe: node map guarded by an internal mutex; the
//   connections table has its own
type Graph struct {
	ID   identity.UUID
	Name string
	Env  *env.Environment

	mu    sync.Mutex
	nodes map[identity.UUID]*node.Node

	connections *connection.Table

	onError              *eventbus.Dispatcher[func(error)]
	onNodeAdded          *eventbus.Dispatcher[func(*node.Node)]
	onNodeRemoved        *eventbus.Dispatcher[func(*node.Node)]
	onNodesConnected     *eventbus.Dispatcher[func(*connection.Connection)]
	onNodesDisconnected  *eventbus.Dispatcher[func(*connection.Connection)]
}

// New constructs an empty graph bound to an environment.
func New(name string, e *env.Environment) *Graph {
	return &Graph{
		ID:                  identity.New(),
		Name:                name,
		Env:                 e,
		nodes:               make(map[identity.UUID]*node.Node),
		connections:         connection.NewTable(),
		onError:             eventbus.New[func(error)](),
		onNodeAdded:         eventbus.New[func(*node.Node)](),
		onNodeRemoved:       eventbus.New[func(*node.Node)](),
		onNodesConnected:    eventbus.New[func(*connection.Connection)](),
		onNodesDisconnected: eventbus.New[func(*connection.Connection)](),
	}
}

func (g *Graph) OnError() *eventbus.Dispatcher[func(error)] { return g.onError }
func (g *Graph) OnNodeAdded() *eventbus.Dispatcher[func(*node.Node)] { return g.onNodeAdded }
func (g *Graph) OnNodeRemoved() *eventbus.Dispatcher[func(*node.Node)] { return g.onNodeRemoved }
func (g *Graph) OnNodesConnected() *eventbus.Dispatcher[func(*connection.Connection)] {
	return g.onNodesConnected
}
func (g *Graph) OnNodesDisconnected() *eventbus.Dispatcher[func(*connection.Connection)] {
	return g.onNodesDisconnected
}

func (g *Graph) broadcastError(err error) {
	metrics.IncNodeError()
	for _, fn := range g.onError.Snapshot() {
		fn(err)
	}
}

// AddNode inserts a node into the graph and binds its output emission
// to this graph's propagation path.
func (g *Graph) AddNode(n *node.Node) {
	if n == nil {
		return
	}

	n.SetPropagateFunc(g.PropagateConnectionsData)

	g.mu.Lock()
	g.nodes[n.ID] = n
	g.mu.Unlock()

	for _, fn := range g.onNodeAdded.Snapshot() {
		fn(n)
	}
}

// RemoveNode removes a node and every connection touching it.
func (g *Graph) RemoveNode(n *node.Node) {
	if n == nil {
		return
	}
	g.RemoveNodeByID(n.ID)
}

// RemoveNodeByID removes the node with the given ID, if present, and
// every connection touching it.
func (g *Graph) RemoveNodeByID(id identity.UUID) {
	g.connections.RemoveByNode(id)

	g.mu.Lock()
	n, ok := g.nodes[id]
	if ok {
		delete(g.nodes, id)
	}
	g.mu.Unlock()

	if ok {
		for _, fn := range g.onNodeRemoved.Snapshot() {
			fn(n)
		}
	}
}

// GetNode returns the node with the given ID, or nil.
func (g *Graph) GetNode(id identity.UUID) *node.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes[id]
}

// Nodes returns a snapshot of every node in the graph.
func (g *Graph) Nodes() []*node.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*node.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Connections exposes the graph's connections table.
func (g *Graph) Connections() *connection.Table { return g.connections }

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// ConnectionCount returns the number of connections in the graph.
func (g *Graph) ConnectionCount() int { return g.connections.Size() }

// Clear removes every node and connection.
func (g *Graph) Clear() {
	g.connections.Clear()
	g.mu.Lock()
	g.nodes = make(map[identity.UUID]*node.Node)
	g.mu.Unlock()
}

func anyConnected(ports []*port.Port) bool {
	for _, p := range ports {
		if p.IsConnected() {
			return true
		}
	}
	return false
}

// GetSourceNodes returns every node with at least one connected output
// and no connected input: the entry points a Run() sweep starts from.
func (g *Graph) GetSourceNodes() []*node.Node {
	return g.filterNodes(func(n *node.Node) bool {
		outputs := n.OutputPorts()
		return len(outputs) > 0 && anyConnected(outputs) && !anyConnected(n.InputPorts())
	})
}

// GetLeafNodes returns every node with at least one connected input and
// no connected output.
func (g *Graph) GetLeafNodes() []*node.Node {
	return g.filterNodes(func(n *node.Node) bool {
		inputs := n.InputPorts()
		return len(inputs) > 0 && anyConnected(inputs) && !anyConnected(n.OutputPorts())
	})
}

// GetOrphanNodes returns every node with no connections at all.
func (g *Graph) GetOrphanNodes() []*node.Node {
	return g.filterNodes(func(n *node.Node) bool {
		return !anyConnected(n.InputPorts()) && !anyConnected(n.OutputPorts())
	})
}

func (g *Graph) filterNodes(pred func(*node.Node) bool) []*node.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*node.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

// Run submits a compute invocation for every source node, kicking off
// the flow that propagates through the rest of the graph.
func (g *Graph) Run() {
	for _, n := range g.GetSourceNodes() {
		n := n
		g.Env.Submit(func() {
			n.Lock()
			defer n.Unlock()
			n.InvokeCompute()
			metrics.IncNodeCompute()
		})
	}
}

// CanConnect reports whether start's output port at startKey can reach
// end's input port at endKey, both by existence and by convertibility
// through the environment's shared type registry.
func (g *Graph) CanConnect(start identity.UUID, startKey identity.Name, end identity.UUID, endKey identity.Name) bool {
	startNode, endNode := g.GetNode(start), g.GetNode(end)
	if startNode == nil || endNode == nil {
		return false
	}
	startPort, err := startNode.GetOutput(startKey)
	if err != nil {
		return false
	}
	endPort, err := endNode.GetInput(endKey)
	if err != nil {
		return false
	}
	return g.Env.Factory.IsConvertible(startPort.DataType(), endPort.DataType())
}

// ConnectNodes connects an output port to an input port. If the input
// port is already connected, the existing connection between the two
// nodes on that port pair is returned rather than creating a
// duplicate.
func (g *Graph) ConnectNodes(start identity.UUID, startKey identity.Name, end identity.UUID, endKey identity.Name) (*connection.Connection, error) {
	startNode, endNode := g.GetNode(start), g.GetNode(end)
	if startNode == nil || endNode == nil {
		return nil, ErrNodeNotFound
	}

	startPort, err := startNode.GetOutput(startKey)
	if err != nil {
		return nil, ErrPortNotFound
	}
	endPort, err := endNode.GetInput(endKey)
	if err != nil {
		return nil, ErrPortNotFound
	}
	if !g.Env.Factory.IsConvertible(startPort.DataType(), endPort.DataType()) {
		return nil, ErrIncompatibleTypes
	}

	startPort.Connect()
	if !endPort.Connect() {
		for _, c := range g.connections.FindByPort(start, startKey) {
			if c.EndNode.Equal(end) && c.EndPort.Equal(endKey) {
				return c, nil
			}
		}
		return nil, nil
	}

	conn := g.connections.Add(start, startKey, end, endKey)
	for _, fn := range g.onNodesConnected.Snapshot() {
		fn(conn)
	}

	if data := startPort.Data(); data != nil {
		g.PropagateConnectionsData(start, startKey, data)
	}
	return conn, nil
}

// DisconnectNodes removes the connection between start and end and
// clears the input port's stored data, matching DisconnectNodes.
func (g *Graph) DisconnectNodes(start identity.UUID, startKey identity.Name, end identity.UUID, endKey identity.Name) {
	g.connections.RemovePair(start, end)

	startNode, endNode := g.GetNode(start), g.GetNode(end)
	if startNode == nil || endNode == nil {
		return
	}

	startPort, err := startNode.GetOutput(startKey)
	if err == nil && len(g.connections.FindByPort(start, startKey)) == 0 {
		startPort.Disconnect()
	}

	endPort, err := endNode.GetInput(endKey)
	if err != nil {
		return
	}
	endPort.Disconnect()
	_ = endNode.SetInput(endKey, nil, false)
}

// PropagateConnectionsData fans a produced value out to every
// connection leaving (id, key), converting it to each destination
// port's declared type and delivering it as an async task per
// connection. A conversion or delivery failure is reported through
// OnError and does not affect sibling deliveries.
func (g *Graph) PropagateConnectionsData(id identity.UUID, key identity.Name, data databox.Box) {
	conns := g.connections.FindByPort(id, key)

	for _, conn := range conns {
		conn := conn
		g.Env.Submit(func() {
			conn.Lock()
			defer conn.Unlock()

			target := g.GetNode(conn.EndNode)
			if target == nil {
				return
			}

			target.Lock()
			defer target.Unlock()

			port, err := target.GetInput(conn.EndPort)
			if err != nil {
				return
			}

			converted, err := g.Env.Factory.Convert(data, port.DeclaredType)
			if err != nil {
				logging.Warn("propagation conversion failed", "node", target.ID.String(), "port", conn.EndPort.String(), "error", err)
				g.broadcastError(err)
				return
			}
			metrics.IncConversion()

			if err := target.SetInput(conn.EndPort, converted, true); err != nil {
				g.broadcastError(err)
			}
		})
	}
}

// Visit calls visitor once for every node, breadth-first starting from
// the source nodes, then any still-unvisited nodes (orphans and nodes
// only reachable in a cycle already covered by an earlier visit).
// Cycles never cause a node to be visited twice.
func (g *Graph) Visit(visitor func(*node.Node)) {
	g.mu.Lock()
	total := len(g.nodes)
	g.mu.Unlock()
	if total == 0 {
		return
	}

	visited := make(map[identity.UUID]bool, total)
	queue := make([]identity.UUID, 0, total)

	for _, n := range g.GetSourceNodes() {
		if visited[n.ID] {
			continue
		}
		visitor(n)
		visited[n.ID] = true
		queue = append(queue, n.ID)
	}

	for i := 0; i < len(queue); i++ {
		for _, c := range g.connections.Find(queue[i]) {
			if visited[c.EndNode] {
				continue
			}
			child := g.GetNode(c.EndNode)
			if child == nil {
				continue
			}
			visitor(child)
			visited[c.EndNode] = true
			queue = append(queue, c.EndNode)
		}
	}

	g.mu.Lock()
	remaining := make([]*node.Node, 0)
	for id, n := range g.nodes {
		if !visited[id] {
			remaining = append(remaining, n)
		}
	}
	g.mu.Unlock()

	for _, n := range remaining {
		visitor(n)
		visited[n.ID] = true
	}

	if len(visited) != total {
		g.broadcastError(ErrNodeNotFound)
	}
}
