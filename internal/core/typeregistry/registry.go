package typeregistry

import (
	"strings"
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/databox"
)

// ConversionFunc converts a box from one registered type to another. A
// nil ConversionFunc may be registered deliberately to mark a pair as
// "known but unconvertible", which Convert reports as
// ErrConversionMissing rather than silently passing the box through.
type ConversionFunc func(databox.Box) (databox.Box, error)

// Registry maps from-tag to to-tag through conversion functions.
//
// PRINCIPLES:
// - SRP: only conversion bookkeeping, no knowledge of ports or nodes
// - thread-safe: every operation is guarded by an internal mutex
type Registry struct {
	mu          sync.RWMutex
	conversions map[string]map[string]ConversionFunc
}

// New constructs an empty type registry. Identity and the reserved
// "any" tag are handled implicitly by Convert/IsConvertible and never
// need explicit registration.
func New() *Registry {
	return &Registry{conversions: make(map[string]map[string]ConversionFunc)}
}

// RegisterUnidirectional adds a from -> to conversion. When from == to,
// this additionally registers the reference-qualified variant (to+"&")
// in both directions as an identity pass-through, so a T box can be
// handed to a "T&" port and vice versa.
func (r *Registry) RegisterUnidirectional(from, to string, fn ConversionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerLocked(from, to, fn)

	if from == to {
		identity := func(b databox.Box) (databox.Box, error) { return b, nil }
		r.registerLocked(from, to+"&", identity)
		r.registerLocked(from+"&", to, identity)
		r.registerLocked(from+"&", to+"&", identity)
	}
}

func (r *Registry) registerLocked(from, to string, fn ConversionFunc) {
	bucket, ok := r.conversions[from]
	if !ok {
		bucket = make(map[string]ConversionFunc)
		r.conversions[from] = bucket
	}
	bucket[to] = fn
}

// RegisterBidirectional registers both directions between two types.
func (r *Registry) RegisterBidirectional(a, b string, aToB, bToA ConversionFunc) {
	r.RegisterUnidirectional(a, b, aToB)
	r.RegisterUnidirectional(b, a, bToA)
}

// RegisterComplete registers converters for every ordered pair (i != j)
// among tags, using factory to build each direction's converter. This
// backs the numeric ladder the environment pre-registers at
// construction time.
func (r *Registry) RegisterComplete(tags []string, factory func(from, to string) ConversionFunc) {
	for _, from := range tags {
		for _, to := range tags {
			if from == to {
				continue
			}
			r.RegisterUnidirectional(from, to, factory(from, to))
		}
	}
}

func stripQualifiers(tag string) string {
	tag = strings.TrimPrefix(tag, "const ")
	tag = strings.TrimSuffix(tag, "&")
	return tag
}

// IsConvertible reports whether a box of type "from" can reach "to",
// stripping trailing "&" and leading "const " before comparison.
// Identity and the "any" target are always true.
func (r *Registry) IsConvertible(from, to string) bool {
	if from == to || to == AnyTag {
		return true
	}

	bareFrom, bareTo := stripQualifiers(from), stripQualifiers(to)
	if bareFrom == bareTo {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	bucket, ok := r.conversions[from]
	if ok {
		if _, exists := bucket[to]; exists {
			return true
		}
	}
	bucket, ok = r.conversions[bareFrom]
	if !ok {
		return false
	}
	_, exists := bucket[bareTo]
	return exists
}

// Convert attempts to convert box to the target tag.
//
// Contract:
//   - nil box, identity, or target "any": returned unchanged.
//   - no registered converter: returned unchanged (best-effort — the
//     graph relies on this when attaching through compatible-but-
//     unregistered types).
//   - converter registered but nil: ErrConversionMissing.
func (r *Registry) Convert(box databox.Box, to string) (databox.Box, error) {
	if box == nil {
		return nil, nil
	}
	if box.Type() == to || to == AnyTag {
		return box, nil
	}

	r.mu.RLock()
	bucket, ok := r.conversions[box.Type()]
	if !ok {
		r.mu.RUnlock()
		return box, nil
	}
	fn, ok := bucket[to]
	r.mu.RUnlock()

	if !ok {
		return box, nil
	}
	if fn == nil {
		return nil, ErrConversionMissing
	}
	return fn(box)
}
