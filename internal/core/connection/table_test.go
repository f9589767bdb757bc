package connection

import (
	"testing"

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

func TestAddAndFind(t *testing.T) {
	tbl := NewTable()
	a, b := identity.New(), identity.New()
	outKey, inKey := mustKey(t, "out"), mustKey(t, "in")

	conn := tbl.Add(a, outKey, b, inKey)
	require.NotNil(t, conn)

	found := tbl.Find(a)
	require.Len(t, found, 1)
	assert.True(t, found[0].ID.Equal(conn.ID))
	assert.Equal(t, 1, tbl.Size())
}

func TestFindByPortFiltersOnStartPort(t *testing.T) {
	tbl := NewTable()
	a, b1, b2 := identity.New(), identity.New(), identity.New()
	out1, out2, in := mustKey(t, "out1"), mustKey(t, "out2"), mustKey(t, "in")

	tbl.Add(a, out1, b1, in)
	tbl.Add(a, out2, b2, in)

	found := tbl.FindByPort(a, out1)
	require.Len(t, found, 1)
	assert.True(t, found[0].EndNode.Equal(b1))
}

func TestRemoveByNodeRemovesAsStartAndEnd(t *testing.T) {
	tbl := NewTable()
	a, b, c := identity.New(), identity.New(), identity.New()
	out, in := mustKey(t, "out"), mustKey(t, "in")

	tbl.Add(a, out, b, in)
	tbl.Add(b, out, c, in)

	tbl.RemoveByNode(b)

	assert.Empty(t, tbl.Find(a))
	assert.Empty(t, tbl.Find(b))
	assert.Equal(t, 0, tbl.Size())
}

func TestRemovePairRemovesFirstMatch(t *testing.T) {
	tbl := NewTable()
	a, b := identity.New(), identity.New()
	out, in := mustKey(t, "out"), mustKey(t, "in")

	tbl.Add(a, out, b, in)
	tbl.RemovePair(a, b)

	assert.Empty(t, tbl.Find(a))
}

func TestRemoveByIDRemovesExactConnection(t *testing.T) {
	tbl := NewTable()
	a, b, c := identity.New(), identity.New(), identity.New()
	out, in := mustKey(t, "out"), mustKey(t, "in")

	first := tbl.Add(a, out, b, in)
	tbl.Add(a, out, c, in)

	tbl.RemoveByID(first.ID)

	found := tbl.Find(a)
	require.Len(t, found, 1)
	assert.True(t, found[0].EndNode.Equal(c))
}

func TestClearRemovesEverything(t *testing.T) {
	tbl := NewTable()
	a, b := identity.New(), identity.New()
	tbl.Add(a, mustKey(t, "out"), b, mustKey(t, "in"))

	tbl.Clear()
	assert.Equal(t, 0, tbl.Size())
	assert.Empty(t, tbl.All())
}

func TestFindReturnsIndependentSnapshot(t *testing.T) {
	tbl := NewTable()
	a, b := identity.New(), identity.New()
	tbl.Add(a, mustKey(t, "out"), b, mustKey(t, "in"))

	snapshot := tbl.Find(a)
	tbl.Add(a, mustKey(t, "out2"), b, mustKey(t, "in"))

	assert.Len(t, snapshot, 1, "earlier snapshot must not observe a later Add")
	assert.Len(t, tbl.Find(a), 2)
}

func TestConnectionLockUnlockSerializesDelivery(t *testing.T) {
	conn := New(identity.New(), mustKey(t, "out"), identity.New(), mustKey(t, "in"))
	conn.Lock()
	done := make(chan struct{})
	go func() {
		conn.Lock()
		conn.Unlock()
		close(done)
	}()
	conn.Unlock()
	<-done
}
