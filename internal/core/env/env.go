package env

import (
	"os"
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/factory"
	"github.com/flowgraph/flowgraph/internal/core/module"
	"github.com/flowgraph/flowgraph/internal/platform/workerpool"
)

// Environment is the shared context a process constructs its graphs
// against: a node factory, a worker pool graphs submit compute work
// to, and the set of currently loaded extension modules.
//
// PRINCIPLES:
// - SRP: composition root for factory + pool + modules, no graph or
//   node logic of its own
// - thread-safe: module registry guarded by an internal mutex; Factory
//   and Pool are independently thread-safe
type Environment struct {
	Factory *factory.Factory
	Pool    *workerpool.Pool

	mu      sync.Mutex
	modules map[string]*module.Module
}

// Options configures an Environment's worker pool. Zero values fall
// back to workerpool.New's own defaults (NumCPU workers, 256-deep
// queues).
type Options struct {
	NumWorkers    int
	QueueCapacity int
}

// New constructs an environment with a fresh factory (numeric and
// duration conversion ladders pre-registered) and a running worker
// pool.
func New(opts Options) *Environment {
	return &Environment{
		Factory: factory.New(),
		Pool:    workerpool.New(opts.NumWorkers, opts.QueueCapacity),
		modules: make(map[string]*module.Module),
	}
}

// Submit enqueues a single task on the worker pool.
func (e *Environment) Submit(task func()) { e.Pool.Submit(task) }

// SubmitSequence submits one task per index in [first, last).
func (e *Environment) SubmitSequence(first, last int, task func(idx int)) {
	e.Pool.SubmitSequence(first, last, task)
}

// SubmitLoop splits [first, last) into blocks and submits one task per
// index within each block.
func (e *Environment) SubmitLoop(first, last int, task func(idx int), numBlocks int) {
	e.Pool.SubmitLoop(first, last, task, numBlocks)
}

// SubmitBlocks splits [first, last) into contiguous ranges and submits
// one task per range.
func (e *Environment) SubmitBlocks(first, last int, task func(start, end int), numBlocks int) {
	e.Pool.SubmitBlocks(first, last, task, numBlocks)
}

// Wait blocks until every task queued before the call has run.
func (e *Environment) Wait() { e.Pool.Wait() }

// Shutdown stops the worker pool. The environment is not usable after
// this returns.
func (e *Environment) Shutdown() { e.Pool.Stop() }

// Var returns the value of a system environment variable, or "" if
// unset, matching Env::GetVar.
func (e *Environment) Var(name string) string { return os.Getenv(name) }

// LoadModule loads the extension package at path (a directory, a zip
// archive, or a bare .flowmod manifest file) and registers every class
// and conversion it contributes into e.Factory.
func (e *Environment) LoadModule(path string) error {
	e.mu.Lock()
	if _, exists := e.modules[path]; exists {
		e.mu.Unlock()
		return ErrModuleAlreadyLoaded
	}
	mod := module.New(path, e.Factory)
	e.mu.Unlock()

	if err := mod.Load(); err != nil {
		return err
	}

	e.mu.Lock()
	e.modules[path] = mod
	e.mu.Unlock()
	return nil
}

// UnloadModule unregisters and removes the module previously loaded
// from path.
func (e *Environment) UnloadModule(path string) error {
	e.mu.Lock()
	mod, exists := e.modules[path]
	if !exists {
		e.mu.Unlock()
		return ErrModuleNotLoaded
	}
	delete(e.modules, path)
	e.mu.Unlock()

	mod.Unload()
	return nil
}

// LoadedModules returns a snapshot of currently loaded module metadata,
// keyed by the path they were loaded from.
func (e *Environment) LoadedModules() map[string]module.Metadata {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]module.Metadata, len(e.modules))
	for path, mod := range e.modules {
		out[path] = mod.Meta
	}
	return out
}
