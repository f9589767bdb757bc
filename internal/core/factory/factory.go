package factory

import (
	"sort"
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/eventbus"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/internal/core/node"
	"github.com/flowgraph/flowgraph/internal/core/typeregistry"
	"github.com/flowgraph/flowgraph/internal/platform/logging"
)

// Constructor builds a fresh node instance for a registered class.
type Constructor func(id identity.UUID, name string, env any) *node.Node

// Factory constructs nodes from registered class names and owns the
// shared type conversion registry, so a class registered by an
// extension can also contribute conversions used across the graph.
//
// PRINCIPLES:
// - SRP: node construction + conversion registry, nothing about
//   worker scheduling or module lifecycle (that lives in env/module)
// - thread-safe: every operation is guarded by an internal mutex
type Factory struct {
	mu            sync.RWMutex
	constructors  map[string]Constructor
	categories    map[string][]string // category -> class names
	friendlyNames map[string]string   // class name -> friendly display name

	conversions *typeregistry.Registry

	onClassRegistered   *eventbus.Dispatcher[func(className string)]
	onClassUnregistered *eventbus.Dispatcher[func(className string)]
}

// New constructs an empty factory with the numeric and duration
// conversion ladders pre-registered, so a fresh factory can convert
// between builtin scalar types before any class is registered.
func New() *Factory {
	registry := typeregistry.New()
	typeregistry.RegisterNumericLadder(registry)
	typeregistry.RegisterDurationLadder(registry)

	return &Factory{
		constructors:        make(map[string]Constructor),
		categories:          make(map[string][]string),
		friendlyNames:       make(map[string]string),
		conversions:         registry,
		onClassRegistered:   eventbus.New[func(string)](),
		onClassUnregistered: eventbus.New[func(string)](),
	}
}

// OnClassRegistered fires after a class is successfully registered.
func (f *Factory) OnClassRegistered() *eventbus.Dispatcher[func(string)] { return f.onClassRegistered }

// OnClassUnregistered fires after a class is removed.
func (f *Factory) OnClassUnregistered() *eventbus.Dispatcher[func(string)] {
	return f.onClassUnregistered
}

// RegisterClass binds className to a constructor under category, with
// a human-friendly display name. Fails with ErrClassAlreadyRegistered
// if the class name is taken.
func (f *Factory) RegisterClass(category, className, friendlyName string, ctor Constructor) error {
	f.mu.Lock()
	if _, exists := f.constructors[className]; exists {
		f.mu.Unlock()
		return ErrClassAlreadyRegistered
	}
	f.constructors[className] = ctor
	f.categories[category] = append(f.categories[category], className)
	f.friendlyNames[className] = friendlyName
	f.mu.Unlock()

	logging.Debug("registered node class", "class", className, "category", category)
	for _, fn := range f.onClassRegistered.Snapshot() {
		fn(className)
	}
	return nil
}

// UnregisterClass removes a class's constructor and bookkeeping. A
// module unload calls this for every class it contributed.
func (f *Factory) UnregisterClass(className string) {
	f.mu.Lock()
	if _, exists := f.constructors[className]; !exists {
		f.mu.Unlock()
		return
	}
	delete(f.constructors, className)
	delete(f.friendlyNames, className)
	for category, names := range f.categories {
		filtered := names[:0:0]
		for _, n := range names {
			if n != className {
				filtered = append(filtered, n)
			}
		}
		f.categories[category] = filtered
	}
	f.mu.Unlock()

	for _, fn := range f.onClassUnregistered.Snapshot() {
		fn(className)
	}
}

// Create builds a node of the given registered class.
func (f *Factory) Create(className string, id identity.UUID, name string, env any) (*node.Node, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[className]
	f.mu.RUnlock()
	if !ok {
		return nil, ErrClassNotRegistered
	}
	return ctor(id, name, env), nil
}

// Categories returns a snapshot of category -> registered class names.
func (f *Factory) Categories() map[string][]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string][]string, len(f.categories))
	for category, names := range f.categories {
		cp := make([]string, len(names))
		copy(cp, names)
		sort.Strings(cp)
		out[category] = cp
	}
	return out
}

// FriendlyName returns the display name registered for className, or
// className itself if none was given.
func (f *Factory) FriendlyName(className string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if name, ok := f.friendlyNames[className]; ok {
		return name
	}
	return className
}

// IsRegistered reports whether className has a live constructor.
func (f *Factory) IsRegistered(className string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.constructors[className]
	return ok
}

// Conversions exposes the shared type registry so nodes, ports, and
// the graph's propagation path all convert through the exact same
// conversion table a module contributes to.
func (f *Factory) Conversions() *typeregistry.Registry { return f.conversions }

// Convert delegates to the shared conversion registry.
func (f *Factory) Convert(box databox.Box, to string) (databox.Box, error) {
	return f.conversions.Convert(box, to)
}

// IsConvertible delegates to the shared conversion registry.
func (f *Factory) IsConvertible(from, to string) bool {
	return f.conversions.IsConvertible(from, to)
}

// Category is a scoped registration handle bound to a fixed category
// name, so extensions can register several classes without repeating
// the category string. It records every class it registers so they can
// be unregistered as a batch, e.g. when a module owning the category is
// unloaded.
type Category struct {
	factory *Factory
	name    string

	mu      sync.Mutex
	classes []string
}

// NewCategory returns a registration handle scoped to name.
func (f *Factory) NewCategory(name string) *Category {
	return &Category{factory: f, name: name}
}

// Sub returns a nested category, joined with "/" like the original
// engine's grouped node palette. The returned handle tracks its own
// classes independently of its parent.
func (c *Category) Sub(name string) *Category {
	return &Category{factory: c.factory, name: c.name + "/" + name}
}

// RegisterClass registers className under this category's name and
// tracks it for a later UnregisterAll.
func (c *Category) RegisterClass(className, friendlyName string, ctor Constructor) error {
	if err := c.factory.RegisterClass(c.name, className, friendlyName, ctor); err != nil {
		return err
	}
	c.mu.Lock()
	c.classes = append(c.classes, className)
	c.mu.Unlock()
	return nil
}

// UnregisterAll unregisters every class this handle has registered, in
// registration order, and clears its tracked list.
func (c *Category) UnregisterAll() {
	c.mu.Lock()
	classes := c.classes
	c.classes = nil
	c.mu.Unlock()

	for _, className := range classes {
		c.factory.UnregisterClass(className)
	}
}
