package identity

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// UUID is a 128-bit entity identifier, rendered as the canonical
// 8-4-4-4-12 lowercase hex form.
//
// PRINCIPLES:
// - KISS: thin wrapper, no custom byte layout
// - SRP: identity only, no business meaning
type UUID struct {
	id uuid.UUID
}

// Nil is the zero-value UUID (all bytes zero).
var Nil = UUID{}

// New generates a random UUID.
func New() UUID {
	return UUID{id: uuid.New()}
}

// Parse accepts an 8-4-4-4-12 hex string, case-insensitive, and fails
// with ErrInvalidUUID otherwise.
func Parse(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, ErrInvalidUUID
	}
	return UUID{id: id}, nil
}

// MustParse panics on parse failure; intended for constants and tests.
func MustParse(s string) UUID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String renders the canonical lowercase form.
func (u UUID) String() string {
	return u.id.String()
}

// IsNil reports whether this is the zero-value UUID.
func (u UUID) IsNil() bool {
	return u.id == uuid.Nil
}

// Compare provides total ordering by byte-lexicographic comparison.
func (u UUID) Compare(other UUID) int {
	for i := range u.id {
		if u.id[i] != other.id[i] {
			if u.id[i] < other.id[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports byte equality.
func (u UUID) Equal(other UUID) bool {
	return u.id == other.id
}

// Hash returns the XOR of the two 64-bit halves as a cheap map key.
func (u UUID) Hash() uint64 {
	hi := binary.BigEndian.Uint64(u.id[:8])
	lo := binary.BigEndian.Uint64(u.id[8:])
	return hi ^ lo
}

// MarshalText implements encoding.TextMarshaler so UUID round-trips
// through JSON as a plain string.
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
