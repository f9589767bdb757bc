package flowgraph

import (
	"context"
	"errors"

	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/graphcore"
	"github.com/flowgraph/flowgraph/pkg/nodes"
	"github.com/flowgraph/flowgraph/pkg/persistence"
)

// Re-export core types for convenience, so a consumer of this façade
// never needs an internal/core import.
type Graph = graphcore.Graph
type Environment = env.Environment
type PortableGraph = persistence.PortableGraph

// ErrNoStore is returned by SaveGraph/LoadGraph when the runtime was
// built without WithStore.
var ErrNoStore = errors.New("flowgraph: runtime has no configured graph store")

// Runtime is a thin façade over an environment: it owns the worker
// pool and factory, and optionally a snapshot store, so a caller can
// build, run, and persist graphs without touching internal packages.
type Runtime struct {
	Env   *env.Environment
	store *persistence.SQLiteGraphStore
}

// NewRuntime constructs a runtime with its own environment and the
// built-in node classes pre-registered.
func NewRuntime(opts env.Options) *Runtime {
	e := env.New(opts)
	nodes.RegisterBuiltins(e.Factory)
	return &Runtime{Env: e}
}

// WithStore attaches a snapshot store, enabling SaveGraph/LoadGraph.
func (rt *Runtime) WithStore(store *persistence.SQLiteGraphStore) *Runtime {
	rt.store = store
	return rt
}

// NewGraph constructs an empty graph bound to this runtime's
// environment.
func (rt *Runtime) NewGraph(name string) *graphcore.Graph {
	return graphcore.New(name, rt.Env)
}

// Run kicks off computation from every source node in g.
func (rt *Runtime) Run(g *graphcore.Graph) { g.Run() }

// Wait blocks until every task currently queued on the environment's
// worker pool has completed.
func (rt *Runtime) Wait() { rt.Env.Wait() }

// Shutdown stops the environment's worker pool. The runtime is unusable
// afterward.
func (rt *Runtime) Shutdown() { rt.Env.Shutdown() }

// LoadModule loads an extension package (directory, .zip, or bare
// .flowmod manifest) into this runtime's factory.
func (rt *Runtime) LoadModule(path string) error { return rt.Env.LoadModule(path) }

// UnloadModule removes a previously loaded extension.
func (rt *Runtime) UnloadModule(path string) error { return rt.Env.UnloadModule(path) }

// ToPortable snapshots g into its portable JSON-ready form.
func (rt *Runtime) ToPortable(g *graphcore.Graph) (*persistence.PortableGraph, error) {
	return persistence.ToPortable(g)
}

// FromPortable reconstructs a graph from its portable form using this
// runtime's factory.
func (rt *Runtime) FromPortable(name string, p *persistence.PortableGraph) (*graphcore.Graph, error) {
	return persistence.FromPortable(rt.Env, name, p)
}

// SaveGraph persists g's snapshot to the attached store.
func (rt *Runtime) SaveGraph(ctx context.Context, g *graphcore.Graph) error {
	if rt.store == nil {
		return ErrNoStore
	}
	return rt.store.Save(ctx, g)
}

// LoadGraph reconstructs a previously saved graph by ID from the
// attached store.
func (rt *Runtime) LoadGraph(ctx context.Context, id string) (*graphcore.Graph, error) {
	if rt.store == nil {
		return nil, ErrNoStore
	}
	return rt.store.Get(ctx, rt.Env, id)
}
