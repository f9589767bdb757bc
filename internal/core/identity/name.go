package identity

import "hash/fnv"

// Name is a short hashable string used as a port or event subscription
// key. Equality and hashing use only the 64-bit fingerprint; the
// original string is retained for diagnostics.
//
// Hashing uses FNV-1a rather than a ported CityHash64: no pack example
// carries a CityHash implementation, and any stable 64-bit hash gives
// the same equality semantics.
type Name struct {
	hash  uint64
	value string
}

// NoneName is the reserved "empty" name.
var NoneName = mustNewName("None")

// NewName constructs a Name from a string, failing with ErrEmptyName
// if the source is empty.
func NewName(s string) (Name, error) {
	if s == "" {
		return Name{}, ErrEmptyName
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return Name{hash: h.Sum64(), value: s}, nil
}

func mustNewName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Hash returns the 64-bit fingerprint used for equality and map storage.
func (n Name) Hash() uint64 {
	return n.hash
}

// String returns the original name reference, for diagnostics.
func (n Name) String() string {
	return n.value
}

// Equal compares two names by hash only. Two different spellings that
// happen to collide on hash are treated as equal.
func (n Name) Equal(other Name) bool {
	return n.hash == other.hash
}

// IsNone reports whether this name is the reserved None value.
func (n Name) IsNone() bool {
	return n.hash == NoneName.hash
}
