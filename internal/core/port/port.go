// Package port implements the named endpoints nodes expose: a data box,
// a declared type, connection state, required flag, and stable index.
package port

import (
	"strings"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/identity"
)

// OnSetData is fired synchronously whenever SetData stores a new or
// updated box.
type OnSetData func(key identity.Name, data databox.Box, output bool)

// Port is a named endpoint on a node.
//
// Invariants (enforced by callers):
//   - Required implies DeclaredType ends in "&".
//   - Connected is set by the owning graph when a connection is added
//     and cleared when the last connection touching this port is
//     removed.
type Port struct {
	Key          identity.Name
	Caption      string
	DeclaredType string
	Required     bool
	Index        uint64

	data      databox.Box
	connected bool

	// OnSetData, when non-nil, is invoked after every successful
	// SetData call.
	OnSetData OnSetData
}

// New constructs a port. Required is inferred from a trailing "&" in
// declaredType, matching Node::AddInput/AddOutput in the original
// engine.
func New(key identity.Name, caption, declaredType string, data databox.Box, index uint64) *Port {
	return &Port{
		Key:          key,
		Caption:      caption,
		DeclaredType: declaredType,
		Required:     strings.HasSuffix(declaredType, "&"),
		Index:        index,
		data:         data,
	}
}

// IsConnected reports the port's connection flag.
func (p *Port) IsConnected() bool { return p.connected }

// Connect marks the port connected. Returns false (no-op) if already
// connected.
func (p *Port) Connect() bool {
	if p.connected {
		return false
	}
	p.connected = true
	return true
}

// Disconnect clears the port's connection flag. Returns false (no-op)
// if not connected.
func (p *Port) Disconnect() bool {
	if !p.connected {
		return false
	}
	p.connected = false
	return true
}

// Data returns the stored box, or nil if empty.
func (p *Port) Data() databox.Box { return p.data }

// DataType returns the stored box's type tag if present, otherwise the
// port's declared type.
func (p *Port) DataType() string {
	if p.data != nil {
		return p.data.Type()
	}
	return p.DeclaredType
}

// SetData stores data into the port.
//
// Contract:
//   - Required && data == nil: no-op.
//   - Existing box nil, incoming box nil, or asOutput: store data by
//     reference (replacing whatever was there).
//   - Otherwise: copy the value from the incoming box into the
//     existing box in place, preserving the stored instance's identity.
func (p *Port) SetData(data databox.Box, asOutput bool) {
	if data == nil && p.Required {
		return
	}

	if p.data == nil || data == nil || asOutput {
		p.data = data
	} else if err := p.data.SetRaw(data); err != nil {
		p.data = data
	}

	if p.OnSetData != nil {
		p.OnSetData(p.Key, p.data, asOutput)
	}
}

// SetCaption overwrites the port's display caption.
func (p *Port) SetCaption(caption string) { p.Caption = caption }

// ByIndex sorts ports into stable presentation order.
type ByIndex []*Port

func (s ByIndex) Len() int           { return len(s) }
func (s ByIndex) Less(i, j int) bool { return s[i].Index < s[j].Index }
func (s ByIndex) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
