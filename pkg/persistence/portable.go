package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/graphcore"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/internal/core/node"
)

// PortableGraph is the in-memory portable form of a graph: every node's
// own {id, class, name, inputs} save payload plus the normalized
// connection list.
type PortableGraph struct {
	Nodes       []json.RawMessage
	Connections []portableConnection
}

type portableConnection struct {
	InID       string `json:"in_id"`
	InVarName  string `json:"in_var_name"`
	OutID      string `json:"out_id"`
	OutVarName string `json:"out_var_name"`
}

// wireGraph is the exact on-disk JSON shape; connections are kept as
// raw messages so Unmarshal can normalize legacy key aliases before
// producing a PortableGraph.
type wireGraph struct {
	Nodes       []json.RawMessage `json:"nodes"`
	Connections []json.RawMessage `json:"connections"`
}

// Marshal encodes a PortableGraph to its canonical on-disk JSON form.
func Marshal(p *PortableGraph) ([]byte, error) {
	wire := wireGraph{Nodes: p.Nodes, Connections: make([]json.RawMessage, 0, len(p.Connections))}
	for _, c := range p.Connections {
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		wire.Connections = append(wire.Connections, raw)
	}
	return json.Marshal(wire)
}

// Unmarshal decodes a portable graph's on-disk JSON form, normalizing
// the legacy "in_key"/"out_key" connection aliases along the way.
func Unmarshal(data []byte) (*PortableGraph, error) {
	var wire wireGraph
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", node.ErrBadPayload, err)
	}

	p := &PortableGraph{Nodes: wire.Nodes, Connections: make([]portableConnection, 0, len(wire.Connections))}
	for _, raw := range wire.Connections {
		conn, err := normalizeConnection(raw)
		if err != nil {
			return nil, err
		}
		p.Connections = append(p.Connections, conn)
	}
	return p, nil
}

// legacyNodeEnvelope unwraps the older saved-flow shape, where a node
// object nests its identity under a "model" key instead of carrying
// "class"/"name" directly.
type legacyNodeEnvelope struct {
	Model *json.RawMessage `json:"model"`
}

// legacyConnection accepts the "in_key"/"out_key" aliases older saved
// flows used in place of "in_var_name"/"out_var_name".
type legacyConnection struct {
	InID       *string `json:"in_id"`
	InVarName  *string `json:"in_var_name"`
	InKey      *string `json:"in_key"`
	OutID      *string `json:"out_id"`
	OutVarName *string `json:"out_var_name"`
	OutKey     *string `json:"out_key"`
}

// ToPortable snapshots a graph into its portable JSON-ready form. Node
// payloads come from each node's own Save(), so a node's declared input
// types stay opaque to this package.
func ToPortable(g *graphcore.Graph) (*PortableGraph, error) {
	nodes := g.Nodes()
	out := &PortableGraph{
		Nodes:       make([]json.RawMessage, 0, len(nodes)),
		Connections: make([]portableConnection, 0, g.ConnectionCount()),
	}

	for _, n := range nodes {
		raw, err := n.Save()
		if err != nil {
			return nil, fmt.Errorf("persistence: save node %s: %w", n.ID, err)
		}
		out.Nodes = append(out.Nodes, raw)
	}

	for _, n := range nodes {
		for _, conn := range g.Connections().Find(n.ID) {
			out.Connections = append(out.Connections, portableConnection{
				InID:       conn.EndNode.String(),
				InVarName:  conn.EndPort.String(),
				OutID:      conn.StartNode.String(),
				OutVarName: conn.StartPort.String(),
			})
		}
	}

	return out, nil
}

// FromPortable reconstructs a graph from its portable form, creating
// each node through e's factory by class tag. A class tag with no
// registered constructor fails the whole reconstruction with
// ErrClassNotRegistered, since a partially-built graph is not useful to
// a caller expecting a snapshot restore.
func FromPortable(e *env.Environment, name string, p *PortableGraph) (*graphcore.Graph, error) {
	g := graphcore.New(name, e)

	for _, raw := range p.Nodes {
		classTag, displayName, id, unwrapped, err := decodeNodeHeader(raw)
		if err != nil {
			return nil, err
		}
		if !e.Factory.IsRegistered(classTag) {
			return nil, fmt.Errorf("%w: %s", ErrClassNotRegistered, classTag)
		}

		n, err := e.Factory.Create(classTag, id, displayName, e)
		if err != nil {
			return nil, err
		}
		if err := n.Restore(unwrapped); err != nil {
			return nil, fmt.Errorf("persistence: restore node %s: %w", id, err)
		}
		g.AddNode(n)
	}

	for _, raw := range p.Connections {
		startID, err := identity.Parse(raw.OutID)
		if err != nil {
			return nil, fmt.Errorf("persistence: bad connection out_id: %w", err)
		}
		endID, err := identity.Parse(raw.InID)
		if err != nil {
			return nil, fmt.Errorf("persistence: bad connection in_id: %w", err)
		}
		startKey, err := identity.NewName(raw.OutVarName)
		if err != nil {
			return nil, fmt.Errorf("persistence: bad connection out_var_name: %w", err)
		}
		endKey, err := identity.NewName(raw.InVarName)
		if err != nil {
			return nil, fmt.Errorf("persistence: bad connection in_var_name: %w", err)
		}

		if _, err := g.ConnectNodes(startID, startKey, endID, endKey); err != nil {
			return nil, fmt.Errorf("persistence: connect %s.%s -> %s.%s: %w", startID, startKey, endID, endKey, err)
		}
	}

	return g, nil
}

// decodeNodeHeader reads a node's class/name/id out of its raw save
// payload, unwrapping a legacy "model" envelope first if present, and
// returns the (possibly unwrapped) payload for node.Restore to consume.
func decodeNodeHeader(raw json.RawMessage) (classTag, displayName string, id identity.UUID, payload json.RawMessage, err error) {
	var envelope legacyNodeEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Model != nil {
		raw = *envelope.Model
	}

	var header struct {
		ID    string `json:"id"`
		Class string `json:"class"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return "", "", identity.UUID{}, nil, fmt.Errorf("%w: %v", node.ErrBadPayload, err)
	}
	if header.ID == "" || header.Class == "" {
		return "", "", identity.UUID{}, nil, node.ErrBadPayload
	}

	parsedID, err := identity.Parse(header.ID)
	if err != nil {
		return "", "", identity.UUID{}, nil, fmt.Errorf("%w: %v", node.ErrBadPayload, err)
	}

	return header.Class, header.Name, parsedID, raw, nil
}

// normalizeConnection resolves the legacy "in_key"/"out_key" aliases
// into the canonical portableConnection shape, preferring the canonical
// field when both are present.
func normalizeConnection(raw json.RawMessage) (portableConnection, error) {
	var legacy legacyConnection
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return portableConnection{}, fmt.Errorf("%w: %v", node.ErrBadPayload, err)
	}

	pick := func(canonical, alias *string) string {
		if canonical != nil {
			return *canonical
		}
		if alias != nil {
			return *alias
		}
		return ""
	}

	var out portableConnection
	if legacy.InID != nil {
		out.InID = *legacy.InID
	}
	if legacy.OutID != nil {
		out.OutID = *legacy.OutID
	}
	out.InVarName = pick(legacy.InVarName, legacy.InKey)
	out.OutVarName = pick(legacy.OutVarName, legacy.OutKey)
	return out, nil
}
