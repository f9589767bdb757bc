package factory

import (
	"testing"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/internal/core/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCtor(id identity.UUID, name string, env any) *node.Node {
	return node.New(id, "Stub", name, env, nil)
}

func TestRegisterClassRejectsDuplicate(t *testing.T) {
	f := New()
	require.NoError(t, f.RegisterClass("cat", "Stub", "Stub", stubCtor))
	err := f.RegisterClass("cat", "Stub", "Stub", stubCtor)
	assert.ErrorIs(t, err, ErrClassAlreadyRegistered)
}

func TestCreateUnregisteredClassFails(t *testing.T) {
	f := New()
	_, err := f.Create("Missing", identity.New(), "n", nil)
	assert.ErrorIs(t, err, ErrClassNotRegistered)
}

func TestUnregisterClassRemovesFromCategory(t *testing.T) {
	f := New()
	require.NoError(t, f.RegisterClass("cat", "Stub", "Stub", stubCtor))

	f.UnregisterClass("Stub")

	assert.False(t, f.IsRegistered("Stub"))
	assert.NotContains(t, f.Categories()["cat"], "Stub")

	_, err := f.Create("Stub", identity.New(), "n", nil)
	assert.ErrorIs(t, err, ErrClassNotRegistered)
}

func TestCategoryTracksRegisteredClassesForBatchUnregister(t *testing.T) {
	f := New()
	cat := f.NewCategory("shapes")

	require.NoError(t, cat.RegisterClass("Circle", "Circle", stubCtor))
	require.NoError(t, cat.RegisterClass("Square", "Square", stubCtor))

	assert.True(t, f.IsRegistered("Circle"))
	assert.True(t, f.IsRegistered("Square"))
	assert.ElementsMatch(t, []string{"Circle", "Square"}, f.Categories()["shapes"])

	cat.UnregisterAll()

	assert.False(t, f.IsRegistered("Circle"))
	assert.False(t, f.IsRegistered("Square"))
	assert.Empty(t, f.Categories()["shapes"])
}

func TestCategoryUnregisterAllIsIdempotent(t *testing.T) {
	f := New()
	cat := f.NewCategory("shapes")
	require.NoError(t, cat.RegisterClass("Circle", "Circle", stubCtor))

	cat.UnregisterAll()
	assert.NotPanics(t, func() { cat.UnregisterAll() })
	assert.False(t, f.IsRegistered("Circle"))
}

func TestCategorySubTracksItsOwnClassesSeparately(t *testing.T) {
	f := New()
	parent := f.NewCategory("shapes")
	child := parent.Sub("2d")

	require.NoError(t, parent.RegisterClass("Cube", "Cube", stubCtor))
	require.NoError(t, child.RegisterClass("Circle", "Circle", stubCtor))

	child.UnregisterAll()

	assert.False(t, f.IsRegistered("Circle"))
	assert.True(t, f.IsRegistered("Cube"))
	assert.ElementsMatch(t, []string{"Cube"}, f.Categories()["shapes"])
	assert.Empty(t, f.Categories()["shapes/2d"])
}

// Invariant 4: is_convertible(a, a) == true for all a.
func TestConversionsIdentityIsAlwaysConvertible(t *testing.T) {
	f := New()
	assert.True(t, f.IsConvertible("widget", "widget"))
}

// Invariant 5: is_convertible(a, "any") == true for all a.
func TestConversionsAnyIsAlwaysConvertible(t *testing.T) {
	f := New()
	assert.True(t, f.IsConvertible("widget", "any"))
}

func TestConvertDelegatesToSharedRegistry(t *testing.T) {
	f := New()
	box, err := f.Convert(databox.NewValue(3.9), databox.TypeTag[int]())
	require.NoError(t, err)
	assert.Equal(t, 3, box.Raw())
}

func TestClassRegisteredEventFires(t *testing.T) {
	f := New()
	var seen []string
	key, err := identity.NewName("sub")
	require.NoError(t, err)
	f.OnClassRegistered().Bind(key, func(className string) { seen = append(seen, className) })

	require.NoError(t, f.RegisterClass("cat", "Stub", "Stub", stubCtor))
	assert.Equal(t, []string{"Stub"}, seen)
}
