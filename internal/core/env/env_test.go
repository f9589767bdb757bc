package env

import (
	"sync/atomic"
	"testing"

	"github.com/flowgraph/flowgraph/internal/core/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesPoolDefaultsForZeroOptions(t *testing.T) {
	e := New(Options{})
	defer e.Shutdown()

	require.NotNil(t, e.Factory)
	require.NotNil(t, e.Pool)
	assert.GreaterOrEqual(t, e.Pool.Snapshot().NumWorkers, 1)
}

func TestSubmitAndWait(t *testing.T) {
	e := New(Options{NumWorkers: 2, QueueCapacity: 8})
	defer e.Shutdown()

	var ran int32
	e.Submit(func() { atomic.StoreInt32(&ran, 1) })
	e.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestVarReadsProcessEnvironment(t *testing.T) {
	e := New(Options{})
	defer e.Shutdown()

	t.Setenv("FLOWGRAPH_TEST_VAR", "value")
	assert.Equal(t, "value", e.Var("FLOWGRAPH_TEST_VAR"))
	assert.Equal(t, "", e.Var("FLOWGRAPH_TEST_VAR_UNSET"))
}

func TestLoadModuleRejectsDoubleLoad(t *testing.T) {
	e := New(Options{})
	defer e.Shutdown()

	e.mu.Lock()
	e.modules["fake/path.flowmod"] = module.New("fake/path.flowmod", e.Factory)
	e.mu.Unlock()

	err := e.LoadModule("fake/path.flowmod")
	assert.ErrorIs(t, err, ErrModuleAlreadyLoaded)
}

func TestUnloadModuleRejectsUnknownPath(t *testing.T) {
	e := New(Options{})
	defer e.Shutdown()

	err := e.UnloadModule("never/loaded.flowmod")
	assert.ErrorIs(t, err, ErrModuleNotLoaded)
}

func TestLoadedModulesReturnsIndependentSnapshot(t *testing.T) {
	e := New(Options{})
	defer e.Shutdown()

	assert.Empty(t, e.LoadedModules())

	e.mu.Lock()
	e.modules["fake/path.flowmod"] = module.New("fake/path.flowmod", e.Factory)
	e.mu.Unlock()

	snapshot := e.LoadedModules()
	require.Len(t, snapshot, 1)

	e.mu.Lock()
	delete(e.modules, "fake/path.flowmod")
	e.mu.Unlock()

	assert.Len(t, snapshot, 1, "earlier snapshot must not observe a later deletion")
}
