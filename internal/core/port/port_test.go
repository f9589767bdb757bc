package port

import (
	"sort"
	"testing"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, s string) identity.Name {
	t.Helper()
	k, err := identity.NewName(s)
	require.NoError(t, err)
	return k
}

func TestNewInfersRequiredFromTrailingAmpersand(t *testing.T) {
	p := New(mustKey(t, "in"), "in", "int&", nil, 0)
	assert.True(t, p.Required)

	q := New(mustKey(t, "in"), "in", "int", nil, 0)
	assert.False(t, q.Required)
}

func TestConnectDisconnectToggle(t *testing.T) {
	p := New(mustKey(t, "in"), "in", "int", nil, 0)
	assert.False(t, p.IsConnected())

	assert.True(t, p.Connect())
	assert.True(t, p.IsConnected())
	assert.False(t, p.Connect(), "connecting an already-connected port is a no-op")

	assert.True(t, p.Disconnect())
	assert.False(t, p.IsConnected())
	assert.False(t, p.Disconnect(), "disconnecting an already-disconnected port is a no-op")
}

func TestSetDataOnRequiredPortIgnoresNil(t *testing.T) {
	p := New(mustKey(t, "in"), "in", "int&", databox.NewValue(5), 0)
	p.SetData(nil, false)
	require.NotNil(t, p.Data())
	assert.Equal(t, 5, p.Data().Raw())
}

func TestSetDataReplacesWhenExistingIsNil(t *testing.T) {
	p := New(mustKey(t, "in"), "in", "int", nil, 0)
	box := databox.NewValue(7)
	p.SetData(box, false)
	assert.Same(t, box, p.Data())
}

func TestSetDataAsOutputAlwaysReplaces(t *testing.T) {
	p := New(mustKey(t, "out"), "out", "int", databox.NewValue(1), 0)
	next := databox.NewValue(2)
	p.SetData(next, true)
	assert.Same(t, next, p.Data())
}

func TestSetDataCopiesInPlacePreservingBoxIdentity(t *testing.T) {
	stored := databox.NewValue(1)
	p := New(mustKey(t, "in"), "in", "int", stored, 0)

	p.SetData(databox.NewValue(9), false)

	assert.Same(t, stored, p.Data(), "in-place update keeps the original box instance")
	assert.Equal(t, 9, p.Data().Raw())
}

func TestSetDataInvokesOnSetDataHook(t *testing.T) {
	p := New(mustKey(t, "in"), "in", "int", nil, 0)

	var gotKey identity.Name
	var gotOutput bool
	p.OnSetData = func(key identity.Name, data databox.Box, output bool) {
		gotKey = key
		gotOutput = output
	}

	p.SetData(databox.NewValue(3), true)
	assert.True(t, gotKey.Equal(p.Key))
	assert.True(t, gotOutput)
}

func TestDataTypeFallsBackToDeclaredTypeWhenEmpty(t *testing.T) {
	p := New(mustKey(t, "in"), "in", "int", nil, 0)
	assert.Equal(t, "int", p.DataType())

	p.SetData(databox.NewValue("hi"), true)
	assert.Equal(t, "string", p.DataType())
}

func TestByIndexOrdersPorts(t *testing.T) {
	a := New(mustKey(t, "a"), "a", "int", nil, 2)
	b := New(mustKey(t, "b"), "b", "int", nil, 0)
	c := New(mustKey(t, "c"), "c", "int", nil, 1)

	ports := []*Port{a, b, c}
	assert.Equal(t, uint64(2), ports[0].Index)

	sort.Sort(ByIndex(ports))
	assert.Equal(t, []uint64{0, 1, 2}, []uint64{ports[0].Index, ports[1].Index, ports[2].Index})
}
