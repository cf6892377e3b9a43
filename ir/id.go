package ir

import (
	"strings"

	"github.com/minio/highwayhash"
)

// ID is an ordered sequence of name components, e.g. Mod::Unit::field.
type ID struct {
	parts []string
}

// NewID builds an ID from its components.
func NewID(parts ...string) ID {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return ID{parts: out}
}

// ParseID splits a "::"-joined path into an ID.
func ParseID(path string) ID {
	if path == "" {
		return ID{}
	}
	return NewID(strings.Split(path, "::")...)
}

// Empty reports whether the ID has no components.
func (id ID) Empty() bool { return len(id.parts) == 0 }

// Parts returns the name components.
func (id ID) Parts() []string {
	out := make([]string, len(id.parts))
	copy(out, id.parts)
	return out
}

// Last returns the final name component, or "" if empty.
func (id ID) Last() string {
	if len(id.parts) == 0 {
		return ""
	}
	return id.parts[len(id.parts)-1]
}

// String renders the ID in "::"-joined form.
func (id ID) String() string { return strings.Join(id.parts, "::") }

// MarshalYAML renders the ID as its "::"-joined string form rather than as
// a struct with an unexported field, so --ast dumps are readable.
func (id ID) MarshalYAML() (interface{}, error) { return id.String(), nil }

// Combine appends other's components after id's, returning a new ID.
func (id ID) Combine(other ID) ID {
	out := make([]string, 0, len(id.parts)+len(other.parts))
	out = append(out, id.parts...)
	out = append(out, other.parts...)
	return ID{parts: out}
}

// Append returns a new ID with an extra trailing component.
func (id ID) Append(name string) ID {
	return id.Combine(NewID(name))
}

// Equal reports whether two IDs have the same components.
func (id ID) Equal(other ID) bool {
	if len(id.parts) != len(other.parts) {
		return false
	}
	for i := range id.parts {
		if id.parts[i] != other.parts[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether id starts with every component of prefix, in order.
func (id ID) HasPrefix(prefix ID) bool {
	if len(prefix.parts) > len(id.parts) {
		return false
	}
	for i := range prefix.parts {
		if id.parts[i] != prefix.parts[i] {
			return false
		}
	}
	return true
}

// Less gives IDs a total order (lexicographic over components) so they can be
// used as sort/map keys deterministically, mirroring the deterministic
// declaration ordering the source-code builder relies on when printing.
func (id ID) Less(other ID) bool {
	n := len(id.parts)
	if len(other.parts) < n {
		n = len(other.parts)
	}
	for i := 0; i < n; i++ {
		if id.parts[i] != other.parts[i] {
			return id.parts[i] < other.parts[i]
		}
	}
	return len(id.parts) < len(other.parts)
}

// hashKey is the fixed key the compiler hashes IDs with. It is not a secret;
// it only needs to be stable across a single compiler process so that Hash
// values compare consistently.
var hashKey = []byte("diffingoscopeandidhashkey0123456")[:32]

// Hash returns a fast 64-bit hash of the ID's string form. No pass in this
// module calls it: scope child maps are keyed by name and C7's dependency
// map by String(). Grounded on the teacher's graph.Hash, which keys
// Document identity the same way.
func (id ID) Hash() uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// hashKey is a fixed 32-byte slice; New64 only fails on bad key length.
		panic("ir: bad highwayhash key: " + err.Error())
	}
	_, _ = h.Write([]byte(id.String()))
	return h.Sum64()
}
