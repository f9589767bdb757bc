package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitBlocksUntilAllTasksComplete(t *testing.T) {
	p := New(4, 16)
	defer p.Stop()

	var count int64
	for i := 0; i < 50; i++ {
		p.Submit(func() { atomic.AddInt64(&count, 1) })
	}
	p.Wait()

	assert.Equal(t, int64(50), atomic.LoadInt64(&count))
}

// A task that submits further tasks must keep Wait blocked until every
// recursively submitted hop has also completed, the regression this
// pool exists to guard: a fixed generation-size barrier would return as
// soon as the first hop drained, missing everything a task submits from
// inside its own run.
func TestWaitPropagatesThroughRecursiveSubmit(t *testing.T) {
	p := New(2, 16)
	defer p.Stop()

	var hops int64
	const chainLength = 25

	var step func(remaining int)
	step = func(remaining int) {
		atomic.AddInt64(&hops, 1)
		if remaining > 0 {
			p.Submit(func() { step(remaining - 1) })
		}
	}

	p.Submit(func() { step(chainLength) })
	p.Wait()

	assert.Equal(t, int64(chainLength+1), atomic.LoadInt64(&hops))
}

func TestWaitReturnsImmediatelyWithNoOutstandingWork(t *testing.T) {
	p := New(2, 16)
	defer p.Stop()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return with no outstanding tasks")
	}
}

func TestSubmitSequenceRunsEveryIndex(t *testing.T) {
	p := New(4, 16)
	defer p.Stop()

	seen := make([]int32, 10)
	p.SubmitSequence(0, 10, func(idx int) { atomic.AddInt32(&seen[idx], 1) })
	p.Wait()

	for i, v := range seen {
		assert.Equal(t, int32(1), v, "index %d", i)
	}
}
