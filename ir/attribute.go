package ir

import "strings"

// Recognized attribute keys (§3, invariant 6). Keys not in this set are
// accepted and treated conservatively as both parse- and serialize-relevant
// by the dependency analyser (§4.6, §7 kind 6).
const (
	AttrLength        = "length"
	AttrTransform      = "transform"
	AttrTransformTo    = "transform_to"
	AttrParse          = "parse"
	AttrSerialize      = "serialize"
	AttrByteOrder      = "byteorder"
	AttrChunked        = "chunked"
)

// Attribute is a key plus an optional value expression.
type Attribute struct {
	Key      string
	Value    *Expr
	Internal bool
}

// NewAttribute strips any leading sigil (e.g. "%length" -> "length") from key.
func NewAttribute(key string, value *Expr) Attribute {
	return Attribute{Key: strings.TrimLeft(key, "%$"), Value: value}
}

// AttributeMap is a keyed, last-write-wins dictionary of attributes.
// Iteration order is irrelevant to semantics; Keys() returns the keys in
// first-insertion order for any caller that needs a deterministic order.
type AttributeMap struct {
	entries map[string]Attribute
	order   []string
}

// NewAttributeMap builds an empty map.
func NewAttributeMap() *AttributeMap {
	return &AttributeMap{entries: map[string]Attribute{}}
}

// Set inserts or overwrites the attribute for key (last-write-wins).
func (m *AttributeMap) Set(attr Attribute) {
	if m.entries == nil {
		m.entries = map[string]Attribute{}
	}
	if _, exists := m.entries[attr.Key]; !exists {
		m.order = append(m.order, attr.Key)
	}
	m.entries[attr.Key] = attr
}

// Get returns the attribute for key and whether it was present.
func (m *AttributeMap) Get(key string) (Attribute, bool) {
	if m == nil || m.entries == nil {
		return Attribute{}, false
	}
	a, ok := m.entries[key]
	return a, ok
}

// Has reports whether key is present.
func (m *AttributeMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the attribute keys in first-insertion order.
func (m *AttributeMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// MarshalYAML renders the map as a plain key->attribute map, rather than as
// a struct with unexported fields, so --ast dumps show attributes. The
// result is a Go map, so the dump lists keys in yaml.v3's sorted order, not
// insertion order.
func (m *AttributeMap) MarshalYAML() (interface{}, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]Attribute, len(m.order))
	for _, k := range m.order {
		out[k] = m.entries[k]
	}
	return out, nil
}

// Clone returns a shallow copy of the map (attribute values are not deep-copied).
func (m *AttributeMap) Clone() *AttributeMap {
	out := NewAttributeMap()
	for _, k := range m.Keys() {
		a, _ := m.Get(k)
		out.Set(a)
	}
	return out
}
