// Package flowgraph provides a minimal public façade over the engine's
// internal packages: constructing an environment, building and running
// graphs, and saving/restoring them, without a consumer ever importing
// internal/core directly.
package flowgraph
