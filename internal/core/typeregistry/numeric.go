package typeregistry

import (
	"github.com/flowgraph/flowgraph/internal/core/databox"
)

// numericTags lists the full signed/unsigned integer and float ladder
// the environment pre-registers complete pairwise conversions across.
var numericTags = []string{
	databox.TypeTag[int](),
	databox.TypeTag[int8](),
	databox.TypeTag[int16](),
	databox.TypeTag[int32](),
	databox.TypeTag[int64](),
	databox.TypeTag[uint8](),
	databox.TypeTag[uint16](),
	databox.TypeTag[uint32](),
	databox.TypeTag[uint64](),
	databox.TypeTag[float32](),
	databox.TypeTag[float64](),
}

func numericGetter(tag string) func(databox.Box) (float64, bool) {
	switch tag {
	case databox.TypeTag[int]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[int]); return float64(v.Get()), ok }
	case databox.TypeTag[int8]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[int8]); return float64(v.Get()), ok }
	case databox.TypeTag[int16]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[int16]); return float64(v.Get()), ok }
	case databox.TypeTag[int32]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[int32]); return float64(v.Get()), ok }
	case databox.TypeTag[int64]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[int64]); return float64(v.Get()), ok }
	case databox.TypeTag[uint8]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[uint8]); return float64(v.Get()), ok }
	case databox.TypeTag[uint16]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[uint16]); return float64(v.Get()), ok }
	case databox.TypeTag[uint32]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[uint32]); return float64(v.Get()), ok }
	case databox.TypeTag[uint64]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[uint64]); return float64(v.Get()), ok }
	case databox.TypeTag[float32]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[float32]); return float64(v.Get()), ok }
	case databox.TypeTag[float64]():
		return func(b databox.Box) (float64, bool) { v, ok := b.(*databox.Value[float64]); return float64(v.Get()), ok }
	default:
		return nil
	}
}

func numericSetter(tag string, f float64) databox.Box {
	switch tag {
	case databox.TypeTag[int]():
		return databox.NewValue(int(f))
	case databox.TypeTag[int8]():
		return databox.NewValue(int8(f))
	case databox.TypeTag[int16]():
		return databox.NewValue(int16(f))
	case databox.TypeTag[int32]():
		return databox.NewValue(int32(f))
	case databox.TypeTag[int64]():
		return databox.NewValue(int64(f))
	case databox.TypeTag[uint8]():
		return databox.NewValue(uint8(f))
	case databox.TypeTag[uint16]():
		return databox.NewValue(uint16(f))
	case databox.TypeTag[uint32]():
		return databox.NewValue(uint32(f))
	case databox.TypeTag[uint64]():
		return databox.NewValue(uint64(f))
	case databox.TypeTag[float32]():
		return databox.NewValue(float32(f))
	case databox.TypeTag[float64]():
		return databox.NewValue(f)
	default:
		return nil
	}
}

// RegisterNumericLadder registers truncating conversions between every
// pair of the signed/unsigned integer and floating point widths so a
// float output can feed an int input (and vice versa) without the
// caller registering each pair by hand. Must be wired before any graph
// runs.
func RegisterNumericLadder(r *Registry) {
	r.RegisterComplete(numericTags, func(from, to string) ConversionFunc {
		get := numericGetter(from)
		return func(b databox.Box) (databox.Box, error) {
			f, ok := get(b)
			if !ok {
				return b, nil
			}
			return numericSetter(to, f), nil
		}
	})
}

// DurationUnits lists the unit ladder from nanoseconds through years
// that Duration.Cast supports. Go models a single "duration" box type
// with a unit-cast method rather than one type per unit, so there is
// no cross-type conversion to register here — this list exists for
// callers that want to enumerate supported units.
var DurationUnits = []databox.Unit{
	databox.Nanoseconds, databox.Microseconds, databox.Milliseconds,
	databox.Seconds, databox.Minutes, databox.Hours, databox.Days,
	databox.Months, databox.Years,
}

// RegisterDurationLadder registers the duration self-conversion so a
// duration box is always convertible to itself through the registry
// path used by Graph.propagate, not only through the implicit identity
// check in Convert.
func RegisterDurationLadder(r *Registry) {
	tag := (&databox.Duration{}).Type()
	r.RegisterUnidirectional(tag, tag, func(b databox.Box) (databox.Box, error) {
		d, ok := b.(*databox.Duration)
		if !ok {
			return b, nil
		}
		return databox.NewDuration(d.Get()), nil
	})
}
