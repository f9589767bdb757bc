package node

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/eventbus"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/internal/core/port"
	"github.com/flowgraph/flowgraph/internal/platform/logging"
)

// ComputeFunc is the concrete node's compute logic, injected at
// construction time. Go has no class inheritance to override, so
// concrete node "classes" are built by composing a *Node with a
// ComputeFunc closure, a single-method callback shape specialized to
// one node instance.
type ComputeFunc func(n *Node) error

// SaveInputsFunc/RestoreInputsFunc let a concrete node's constructor
// contribute how its inputs persist, since the base Node has no notion
// of the input value types it holds.
type SaveInputsFunc func(n *Node) map[string]json.RawMessage
type RestoreInputsFunc func(n *Node, inputs map[string]json.RawMessage) error

// Node is a unit of computation with named input and output ports.
type Node struct {
	ID          identity.UUID
	ClassTag    string
	DisplayName string
	Env         any

	mu      sync.Mutex
	inputs  map[uint64]*port.Port
	outputs map[uint64]*port.Port

	compute       ComputeFunc
	saveInputs    SaveInputsFunc
	restoreInputs RestoreInputsFunc
	propagate     func(id identity.UUID, key identity.Name, data databox.Box)

	onCompute    *eventbus.Dispatcher[func()]
	onSetInput   *eventbus.Dispatcher[func(identity.Name, databox.Box)]
	onSetOutput  *eventbus.Dispatcher[func(identity.Name, databox.Box)]
	onError      *eventbus.Dispatcher[func(error)]
	onEmitOutput *eventbus.Dispatcher[func(identity.UUID, identity.Name, databox.Box)]
}

// New constructs a node. compute may be nil for nodes that only ever
// receive SetOutput calls from an external driver (e.g. the function
// adapter sets its own compute closure after construction).
func New(id identity.UUID, classTag, displayName string, env any, compute ComputeFunc) *Node {
	return &Node{
		ID:           id,
		ClassTag:     classTag,
		DisplayName:  displayName,
		Env:          env,
		inputs:       make(map[uint64]*port.Port),
		outputs:      make(map[uint64]*port.Port),
		compute:      compute,
		onCompute:    eventbus.New[func()](),
		onSetInput:   eventbus.New[func(identity.Name, databox.Box)](),
		onSetOutput:  eventbus.New[func(identity.Name, databox.Box)](),
		onError:      eventbus.New[func(error)](),
		onEmitOutput: eventbus.New[func(identity.UUID, identity.Name, databox.Box)](),
	}
}

// Lock/Unlock expose the node-level mutex the graph acquires before
// calling InvokeCompute/SetInput: a node's compute is never reentered
// concurrently by the engine.
func (n *Node) Lock()   { n.mu.Lock() }
func (n *Node) Unlock() { n.mu.Unlock() }

// SetComputeFunc overrides the node's compute closure. Used by the
// function adapter, which builds its ports before it knows its final
// bound closure.
func (n *Node) SetComputeFunc(fn ComputeFunc) { n.compute = fn }

// SetPersistenceFuncs overrides how this node saves/restores its input
// values.
func (n *Node) SetPersistenceFuncs(save SaveInputsFunc, restore RestoreInputsFunc) {
	n.saveInputs = save
	n.restoreInputs = restore
}

// SetPropagateFunc binds the graph-owned hook that fans a box out along
// this node's connections. Bound by Graph.AddNode.
func (n *Node) SetPropagateFunc(fn func(id identity.UUID, key identity.Name, data databox.Box)) {
	n.propagate = fn
}

// Events

func (n *Node) OnCompute() *eventbus.Dispatcher[func()] { return n.onCompute }
func (n *Node) OnSetInput() *eventbus.Dispatcher[func(identity.Name, databox.Box)] {
	return n.onSetInput
}
func (n *Node) OnSetOutput() *eventbus.Dispatcher[func(identity.Name, databox.Box)] {
	return n.onSetOutput
}
func (n *Node) OnError() *eventbus.Dispatcher[func(error)] { return n.onError }
func (n *Node) OnEmitOutput() *eventbus.Dispatcher[func(identity.UUID, identity.Name, databox.Box)] {
	return n.onEmitOutput
}

func (n *Node) broadcastCompute() {
	for _, fn := range n.onCompute.Snapshot() {
		fn()
	}
}
func (n *Node) broadcastSetInput(key identity.Name, data databox.Box) {
	for _, fn := range n.onSetInput.Snapshot() {
		fn(key, data)
	}
}
func (n *Node) broadcastSetOutput(key identity.Name, data databox.Box) {
	for _, fn := range n.onSetOutput.Snapshot() {
		fn(key, data)
	}
}
func (n *Node) broadcastError(err error) {
	for _, fn := range n.onError.Snapshot() {
		fn(err)
	}
}
func (n *Node) broadcastEmitOutput(key identity.Name, data databox.Box) {
	for _, fn := range n.onEmitOutput.Snapshot() {
		fn(n.ID, key, data)
	}
}

// InvokeCompute calls the node's compute closure. It never panics or
// returns an error to the caller: failures are reported only through
// OnError, so one node's failure cannot unwind the caller's stack.
func (n *Node) InvokeCompute() {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("node %s panicked during compute: %v", n.ID, r)
			logging.Error("node compute panicked", "node", n.ID.String(), "class", n.ClassTag, "panic", r)
			n.broadcastError(err)
		}
	}()

	if n.compute == nil {
		return
	}
	if err := n.compute(n); err != nil {
		logging.Warn("node compute failed", "node", n.ID.String(), "class", n.ClassTag, "error", err)
		n.broadcastError(err)
		return
	}
	n.broadcastCompute()
}

// AddInput registers an input port. Required is inferred from a
// trailing "&" in declaredType.
func (n *Node) AddInput(key identity.Name, caption, declaredType string, data databox.Box) {
	p := port.New(key, caption, declaredType, data, uint64(len(n.inputs)))
	n.inputs[key.Hash()] = p
}

// AddRequiredInput registers a required (reference) input port backed
// by a live pointer, so writes flow into the referenced value in place.
func AddRequiredInput[T any](n *Node, key identity.Name, caption string, ref *T) {
	n.AddInput(key, caption, databox.TypeTag[T]()+"&", databox.NewRef(ref))
}

// AddOutput registers an output port.
func (n *Node) AddOutput(key identity.Name, caption, declaredType string, data databox.Box) {
	p := port.New(key, caption, declaredType, data, uint64(len(n.outputs)))
	n.outputs[key.Hash()] = p
}

// GetInput returns the named input port.
func (n *Node) GetInput(key identity.Name) (*port.Port, error) {
	p, ok := n.inputs[key.Hash()]
	if !ok {
		return nil, ErrPortNotFound
	}
	return p, nil
}

// GetOutput returns the named output port.
func (n *Node) GetOutput(key identity.Name) (*port.Port, error) {
	p, ok := n.outputs[key.Hash()]
	if !ok {
		return nil, ErrPortNotFound
	}
	return p, nil
}

// InputPorts returns every input port, ordered by index.
func (n *Node) InputPorts() []*port.Port { return sortedPorts(n.inputs) }

// OutputPorts returns every output port, ordered by index.
func (n *Node) OutputPorts() []*port.Port { return sortedPorts(n.outputs) }

func sortedPorts(m map[uint64]*port.Port) []*port.Port {
	out := make([]*port.Port, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Sort(port.ByIndex(out))
	return out
}

// GetInputData returns the box held by the named input port, or nil.
func (n *Node) GetInputData(key identity.Name) (databox.Box, error) {
	p, err := n.GetInput(key)
	if err != nil {
		return nil, err
	}
	return p.Data(), nil
}

// GetOutputData returns the box held by the named output port, or nil.
func (n *Node) GetOutputData(key identity.Name) (databox.Box, error) {
	p, err := n.GetOutput(key)
	if err != nil {
		return nil, err
	}
	return p.Data(), nil
}

// SetInput stores data into the named input port, broadcasts
// OnSetInput, and, if compute is true, immediately invokes compute.
func (n *Node) SetInput(key identity.Name, data databox.Box, compute bool) error {
	p, err := n.GetInput(key)
	if err != nil {
		return err
	}
	p.SetData(data, false)
	n.broadcastSetInput(key, p.Data())

	if compute {
		n.InvokeCompute()
	}
	return nil
}

// SetOutput stores data into the named output port as an output write,
// broadcasts OnSetOutput, and, if emit is true, calls EmitUpdate.
func (n *Node) SetOutput(key identity.Name, data databox.Box, emit bool) error {
	p, err := n.GetOutput(key)
	if err != nil {
		return err
	}
	p.SetData(data, true)
	n.broadcastSetOutput(key, p.Data())

	if emit {
		n.EmitUpdate(key, p.Data())
	}
	return nil
}

// EmitUpdate fires the graph-bound propagation hook and the
// OnEmitOutput event, in that order, matching Node::EmitUpdate.
func (n *Node) EmitUpdate(key identity.Name, data databox.Box) {
	if n.propagate != nil {
		n.propagate(n.ID, key, data)
	}
	n.broadcastEmitOutput(key, data)
}

// nodeSave is the JSON-serializable snapshot of a node's identity and
// port state.
type nodeSave struct {
	ID     string                     `json:"id"`
	Class  string                     `json:"class"`
	Name   string                     `json:"name"`
	Inputs map[string]json.RawMessage `json:"inputs"`
}

// Save returns the portable representation {id, class, name, inputs}.
func (n *Node) Save() ([]byte, error) {
	var inputs map[string]json.RawMessage
	if n.saveInputs != nil {
		inputs = n.saveInputs(n)
	}
	return json.Marshal(nodeSave{
		ID:     n.ID.String(),
		Class:  n.ClassTag,
		Name:   n.DisplayName,
		Inputs: inputs,
	})
}

// Restore parses {id, class, name, inputs} and applies it to the node.
// Fails with ErrBadPayload if a required field is missing.
func (n *Node) Restore(raw []byte) error {
	var payload struct {
		ID     *string                    `json:"id"`
		Class  *string                    `json:"class"`
		Name   *string                    `json:"name"`
		Inputs map[string]json.RawMessage `json:"inputs"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if payload.ID == nil || payload.Class == nil || payload.Name == nil {
		return ErrBadPayload
	}

	id, err := identity.Parse(*payload.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	n.ID = id
	n.ClassTag = strings.TrimSpace(*payload.Class)
	n.DisplayName = *payload.Name

	if n.restoreInputs != nil && payload.Inputs != nil {
		return n.restoreInputs(n, payload.Inputs)
	}
	return nil
}
