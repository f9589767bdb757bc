package typeregistry

import (
	"testing"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Invariant 4: is_convertible(a, a) == true for all a.
func TestIsConvertibleIdentity(t *testing.T) {
	r := New()
	assert.True(t, r.IsConvertible("widget", "widget"))
}

// Invariant 5: is_convertible(a, "any") == true for all a.
func TestIsConvertibleAny(t *testing.T) {
	r := New()
	assert.True(t, r.IsConvertible("widget", AnyTag))
}

// Scenario 4: unregistered types have no conversion path.
func TestIsConvertibleFalseForUnregisteredTypes(t *testing.T) {
	r := New()
	assert.False(t, r.IsConvertible("X", "Y"))
}

func TestConvertNilBoxReturnsNil(t *testing.T) {
	r := New()
	box, err := r.Convert(nil, "int")
	require.NoError(t, err)
	assert.Nil(t, box)
}

func TestConvertIdentityReturnsSameBox(t *testing.T) {
	r := New()
	in := databox.NewValue(5)
	out, err := r.Convert(in, "int")
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestConvertUnregisteredPairPassesThrough(t *testing.T) {
	r := New()
	in := databox.NewValue(5)
	out, err := r.Convert(in, "widget")
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestConvertRegisteredNilFuncReturnsErrConversionMissing(t *testing.T) {
	r := New()
	r.RegisterUnidirectional("A", "B", nil)

	_, err := r.Convert(databox.NewValue("x"), "B")
	assert.ErrorIs(t, err, ErrConversionMissing)
}

func TestRegisterUnidirectionalIdentityAlsoWiresReferenceVariants(t *testing.T) {
	r := New()
	r.RegisterUnidirectional("int", "int", func(b databox.Box) (databox.Box, error) { return b, nil })

	assert.True(t, r.IsConvertible("int", "int&"))
	assert.True(t, r.IsConvertible("int&", "int"))
	assert.True(t, r.IsConvertible("int&", "int&"))
}

func TestRegisterBidirectionalWiresBothDirections(t *testing.T) {
	r := New()
	toB := func(b databox.Box) (databox.Box, error) { return databox.NewValue("b"), nil }
	toA := func(b databox.Box) (databox.Box, error) { return databox.NewValue("a"), nil }
	r.RegisterBidirectional("A", "B", toB, toA)

	assert.True(t, r.IsConvertible("A", "B"))
	assert.True(t, r.IsConvertible("B", "A"))
}

// Scenario 2: the pre-registered numeric ladder truncates float -> int
// toward zero.
func TestNumericLadderTruncatesTowardZero(t *testing.T) {
	r := New()
	RegisterNumericLadder(r)

	box, err := r.Convert(databox.NewValue(3.9), databox.TypeTag[int]())
	require.NoError(t, err)
	assert.Equal(t, 3, box.Raw())

	box, err = r.Convert(databox.NewValue(-3.9), databox.TypeTag[int]())
	require.NoError(t, err)
	assert.Equal(t, -3, box.Raw())
}

func TestNumericLadderCoversEveryPair(t *testing.T) {
	r := New()
	RegisterNumericLadder(r)

	for _, from := range numericTags {
		for _, to := range numericTags {
			if from == to {
				continue
			}
			assert.Truef(t, r.IsConvertible(from, to), "%s -> %s", from, to)
		}
	}
}

func TestDurationLadderSelfConvertsThroughRegistry(t *testing.T) {
	r := New()
	RegisterDurationLadder(r)

	d := databox.NewDuration(0)
	tag := d.Type()

	out, err := r.Convert(d, tag)
	require.NoError(t, err)
	assert.Equal(t, tag, out.Type())
}
