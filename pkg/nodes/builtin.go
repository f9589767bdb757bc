package nodes

import (
	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/factory"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/internal/core/node"
)

var (
	keyIn  identity.Name
	keyOut identity.Name
)

func init() {
	var err error
	if keyIn, err = identity.NewName("in"); err != nil {
		panic(err)
	}
	if keyOut, err = identity.NewName("out"); err != nil {
		panic(err)
	}
}

// PassthroughInt copies its integer input to its integer output on
// every compute, the minimal node used to demonstrate identity
// propagation through a chain of connections.
func NewPassthroughInt(id identity.UUID, name string, e any) *node.Node {
	n := node.New(id, "PassthroughInt", name, e, nil)
	n.AddInput(keyIn, "in", databox.TypeTag[int](), databox.NewValue(0))
	n.AddOutput(keyOut, "out", databox.TypeTag[int](), databox.NewValue(0))
	n.SetComputeFunc(func(n *node.Node) error {
		in, err := n.GetInputData(keyIn)
		if err != nil {
			return err
		}
		v, _ := in.(*databox.Value[int])
		return n.SetOutput(keyOut, databox.NewValue(v.Get()), true)
	})
	return n
}

// SourceFloat exposes a single float output that a caller sets
// directly; it has no inputs and never computes on its own.
func NewSourceFloat(id identity.UUID, name string, e any) *node.Node {
	n := node.New(id, "SourceFloat", name, e, nil)
	n.AddOutput(keyOut, "out", databox.TypeTag[float64](), databox.NewValue(0.0))
	return n
}

// SinkInt holds the last integer value delivered to its input port; it
// has no compute and keeps no history.
func NewSinkInt(id identity.UUID, name string, e any) *node.Node {
	n := node.New(id, "SinkInt", name, e, nil)
	n.AddInput(keyIn, "in", databox.TypeTag[int](), databox.NewValue(0))
	return n
}

// RegisterBuiltins registers the built-in node classes under the
// "builtin" category of the given factory.
func RegisterBuiltins(f *factory.Factory) {
	cat := f.NewCategory("builtin")
	_ = cat.RegisterClass("PassthroughInt", "Passthrough (int)", func(id identity.UUID, name string, e any) *node.Node {
		return NewPassthroughInt(id, name, e)
	})
	_ = cat.RegisterClass("SourceFloat", "Source (float)", func(id identity.UUID, name string, e any) *node.Node {
		return NewSourceFloat(id, name, e)
	})
	_ = cat.RegisterClass("SinkInt", "Sink (int)", func(id identity.UUID, name string, e any) *node.Node {
		return NewSinkInt(id, name, e)
	})
}

// EnvironmentOf asserts env back to a concrete *env.Environment, for
// node compute closures that need worker-pool or factory access
// beyond ports. Returns nil if e is not an *env.Environment.
func EnvironmentOf(e any) *env.Environment {
	concrete, _ := e.(*env.Environment)
	return concrete
}
