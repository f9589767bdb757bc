package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/pkg/flowgraph"
)

// workloadManager drives a small passthrough chain on a repeating
// ticker so an operator can watch the /metrics counters move under
// synthetic load.
type workloadManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

var wm workloadManager

func (m *workloadManager) startGraph(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		http.Error(w, "graph workload already running", http.StatusConflict)
		return
	}

	rate := 200 * time.Millisecond
	if v := r.URL.Query().Get("rate_ms"); v != "" {
		if ms, err := time.ParseDuration(v + "ms"); err == nil {
			rate = ms
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go runGraphLoop(ctx, rate)

	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, "graph workload started at %v\n", rate)
}

func (m *workloadManager) stopGraph(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "graph workload stopped\n")
}

// runGraphLoop builds one small passthrough chain and re-triggers it on
// every tick, so node computation and propagation counters climb for as
// long as the workload runs.
func runGraphLoop(ctx context.Context, rate time.Duration) {
	rt := flowgraph.NewRuntime(env.Options{})
	defer rt.Shutdown()

	g := rt.NewGraph("workload")
	src, err := rt.Env.Factory.Create("PassthroughInt", identity.New(), "src", rt.Env)
	if err != nil {
		return
	}
	mid, err := rt.Env.Factory.Create("PassthroughInt", identity.New(), "mid", rt.Env)
	if err != nil {
		return
	}
	sink, err := rt.Env.Factory.Create("SinkInt", identity.New(), "sink", rt.Env)
	if err != nil {
		return
	}
	g.AddNode(src)
	g.AddNode(mid)
	g.AddNode(sink)

	keyIn, _ := identity.NewName("in")
	keyOut, _ := identity.NewName("out")
	if _, err := g.ConnectNodes(src.ID, keyOut, mid.ID, keyIn); err != nil {
		return
	}
	if _, err := g.ConnectNodes(mid.ID, keyOut, sink.ID, keyIn); err != nil {
		return
	}

	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	counter := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counter++
			_ = src.SetInput(keyIn, databox.NewValue(counter), true)
		}
	}
}
