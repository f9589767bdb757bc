package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/graphcore"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteGraphStoreSaveGetList(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	e := newTestEnvironment()
	store := NewSQLiteGraphStore(db, DefaultSerializer())
	require.NoError(t, store.CreateTables(ctx))

	g := graphcore.New("saved-graph", e)
	src, err := e.Factory.Create("PassthroughInt", identity.New(), "src", e)
	require.NoError(t, err)
	g.AddNode(src)

	keyIn, _ := identity.NewName("in")
	require.NoError(t, src.SetInput(keyIn, databox.NewValue(42), false))

	require.NoError(t, store.Save(ctx, g))

	loaded, err := store.Get(ctx, e, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, g.Size(), loaded.Size())
	assert.NotNil(t, loaded.GetNode(src.ID))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, g.ID.String(), summaries[0].ID)

	require.NoError(t, store.Delete(ctx, g.ID.String()))
	_, err = store.Get(ctx, e, g.ID.String())
	assert.ErrorIs(t, err, ErrGraphNotFound)
}

func TestSQLiteGraphStoreGetMissing(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	e := newTestEnvironment()
	store := NewSQLiteGraphStore(db, DefaultSerializer())
	require.NoError(t, store.CreateTables(ctx))

	_, err = store.Get(ctx, e, identity.New().String())
	assert.ErrorIs(t, err, ErrGraphNotFound)
}

func TestSQLiteGraphStoreWithTableNameRejectsUnsafe(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLiteGraphStore(db, DefaultSerializer())
	store.WithTableName("graphs; DROP TABLE graphs")
	assert.Equal(t, "graphs", store.tableName)

	store.WithTableName("saved_graphs")
	assert.Equal(t, "saved_graphs", store.tableName)
}
