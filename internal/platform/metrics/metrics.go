// Package metrics exposes expvar-published counters and gauges for the
// engine's worker pool, node computation, and module lifecycle. It
// intentionally avoids external dependencies for this concern, and is
// consumed by the optional flowgraph server's /debug/vars endpoint.
package metrics

import "expvar"

var (
	schedulerWorkers     = new(expvar.Int)
	schedulerQueuedTotal = new(expvar.Int)
	nodeComputeTotal     = new(expvar.Int)
	nodeErrorTotal       = new(expvar.Int)
	conversionTotal      = new(expvar.Int)
	moduleLoadedTotal    = new(expvar.Int)
	moduleUnloadedTotal  = new(expvar.Int)
)

func init() {
	expvar.Publish("flowgraph_scheduler_workers", schedulerWorkers)
	expvar.Publish("flowgraph_scheduler_queued_total", schedulerQueuedTotal)
	expvar.Publish("flowgraph_node_compute_total", nodeComputeTotal)
	expvar.Publish("flowgraph_node_error_total", nodeErrorTotal)
	expvar.Publish("flowgraph_conversion_total", conversionTotal)
	expvar.Publish("flowgraph_module_loaded_total", moduleLoadedTotal)
	expvar.Publish("flowgraph_module_unloaded_total", moduleUnloadedTotal)
}

// SetSchedulerWorkers records the worker pool's fixed worker count.
func SetSchedulerWorkers(n int) { schedulerWorkers.Set(int64(n)) }

// AddSchedulerQueued increments the count of tasks submitted to the
// worker pool.
func AddSchedulerQueued(n int) { schedulerQueuedTotal.Add(int64(n)) }

// IncNodeCompute increments the count of source-node computations
// Graph.Run has invoked, whether or not the computation succeeded.
func IncNodeCompute() { nodeComputeTotal.Add(1) }

// IncNodeError increments the count of errors a graph reported through
// its own OnError event (propagation and delivery failures). Errors a
// node reports through the node's OnError are not counted.
func IncNodeError() { nodeErrorTotal.Add(1) }

// IncConversion increments the count of type conversions performed
// during connection propagation.
func IncConversion() { conversionTotal.Add(1) }

// IncModuleLoaded increments the count of successfully loaded modules.
func IncModuleLoaded() { moduleLoadedTotal.Add(1) }

// IncModuleUnloaded increments the count of unloaded modules.
func IncModuleUnloaded() { moduleUnloadedTotal.Add(1) }
