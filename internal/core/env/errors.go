// Package env wires together the node factory, the worker pool node
// computation runs on, and the set of loaded extension modules — the
// shared context every node and graph in a process is constructed
// against.
package env

import "errors"

// ErrModuleAlreadyLoaded is returned by LoadModule when the given path
// is already loaded.
var ErrModuleAlreadyLoaded = errors.New("env: module already loaded")

// ErrModuleNotLoaded is returned by UnloadModule when the given path
// has no loaded module.
var ErrModuleNotLoaded = errors.New("env: module not loaded")
