package ir

// Kind discriminates the Type sum described in §3. A single struct carries
// the union, following the teacher's graph.Type (one struct, a Kind tag, and
// the fields relevant to that kind left zero otherwise) rather than one
// concrete Go type per variant -- that keeps replace-in-place (§3, §9) a
// matter of overwriting the struct one *Type points at, not a type switch
// over dozens of named structs.
type Kind int

const (
	KindAny Kind = iota
	KindUnknown
	KindUnknownElementType
	KindBool
	KindBytes
	KindCAddr
	KindDouble
	KindSink
	KindString
	KindVoid
	KindInteger
	KindTuple
	KindEnum
	KindBitset
	KindBitfield
	KindList
	KindVector
	KindSet
	KindMap
	KindRegExp
	KindTypeType
	KindMemberAttribute
	KindFunction
	KindUnit
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindUnknownElementType:
		return "unknown_element_type"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindCAddr:
		return "caddr"
	case KindDouble:
		return "double"
	case KindSink:
		return "sink"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	case KindInteger:
		return "integer"
	case KindTuple:
		return "tuple"
	case KindEnum:
		return "enum"
	case KindBitset:
		return "bitset"
	case KindBitfield:
		return "bitfield"
	case KindList:
		return "list"
	case KindVector:
		return "vector"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindRegExp:
		return "regexp"
	case KindTypeType:
		return "type"
	case KindMemberAttribute:
		return "member_attribute"
	case KindFunction:
		return "function"
	case KindUnit:
		return "unit"
	default:
		return "?"
	}
}

// EnumLabel is one label = value pair of an Enum type.
type EnumLabel struct {
	Name  string
	Value int64
}

// BitsetLabel is one label = bit pair of a Bitset type.
type BitsetLabel struct {
	Name string
	Bit  int
}

// BitfieldMember is one named sub-field of a Bitfield type.
type BitfieldMember struct {
	Name  string
	Width int
}

// Type is the tagged union described in §3.
type Type struct {
	Kind Kind

	// Unknown / UnknownElementType
	UnknownID         ID
	UnknownElementExpr *Expr

	// Integer
	Width  int
	Signed bool

	// Tuple
	Elems []*Type

	// Enum
	EnumLabels []EnumLabel
	enumScope  *Scope

	// Bitset
	BitsetLabels []BitsetLabel
	Bits         int
	bitsetScope  *Scope

	// Bitfield
	BitfieldMembers []BitfieldMember

	// List / Vector / Set
	Elem *Type

	// Map
	Key   *Type
	Value *Type

	// RegExp
	Patterns []string
	RegexAttrs *AttributeMap

	// TypeType
	Inner *Type

	// MemberAttribute
	MemberID ID

	// Function
	Result *Type
	Params []*Type

	// Unit
	UnitParams []*UnitParam
	UnitItems  []*UnitItem

	// Shared across variants
	Wildcard  bool
	ID        ID
	Namespace string
	Scope     *Scope
}

// UnitParam is a formal parameter of a Unit type.
type UnitParam struct {
	Name string
	Type *Type
}

// NewEnum constructs an Enum type, inserting the implicit UNDEF = -1 label at
// construction time (§3 invariant 5) and a scope the label names resolve
// through.
func NewEnum(id ID, labels []EnumLabel, parent *Scope) *Type {
	all := append([]EnumLabel{{Name: "UNDEF", Value: -1}}, labels...)
	t := &Type{Kind: KindEnum, ID: id, EnumLabels: all}
	t.enumScope = NewScope(id.String(), parent)
	for _, l := range all {
		t.enumScope.Bind(l.Name, NewConstantExpr(t, int64Value(l.Value)))
	}
	t.Scope = t.enumScope
	return t
}

// NewBitset constructs a Bitset type with a scope its bit names resolve through.
func NewBitset(id ID, labels []BitsetLabel, bits int, parent *Scope) *Type {
	t := &Type{Kind: KindBitset, ID: id, BitsetLabels: labels, Bits: bits}
	t.bitsetScope = NewScope(id.String(), parent)
	for _, l := range labels {
		t.bitsetScope.Bind(l.Name, NewConstantExpr(t, int64Value(l.Bit)))
	}
	t.Scope = t.bitsetScope
	return t
}

// NewUnit constructs a Unit type. Its type scope starts out empty; C5 (the
// unit scope builder) populates it with self/$$/parameter bindings and links
// each item's own scope as a child under "__item_<name>".
func NewUnit(id ID, params []*UnitParam, items []*UnitItem, parent *Scope) *Type {
	t := &Type{Kind: KindUnit, ID: id, UnitParams: params, UnitItems: items}
	t.Scope = NewScope(id.String(), parent)
	for _, it := range items {
		it.Parent = t
	}
	return t
}

// HasSubScope reports whether this type declares its own child names (an
// enum's labels or a bitset's bits), per §4.1.
func (t *Type) HasSubScope() bool {
	return t.Kind == KindEnum || t.Kind == KindBitset
}

// StaticSerializedLength returns the byte width if statically known for this
// type, else (0, false). Unit and Switch-dependent widths are computed by the
// caller (the compacter and switch-case analysis need the per-item static
// length, which also folds in attribute overrides -- see UnitItem.StaticLength).
func (t *Type) StaticSerializedLength() (int, bool) {
	switch t.Kind {
	case KindBool:
		return 1, true
	case KindInteger:
		return t.Width / 8, true
	case KindDouble:
		return 8, true
	case KindEnum:
		return 4, true
	case KindBitset, KindBitfield:
		if t.Bits > 0 {
			return (t.Bits + 7) / 8, true
		}
		return 0, false
	case KindTuple:
		total := 0
		for _, e := range t.Elems {
			n, ok := e.StaticSerializedLength()
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true
	default:
		return 0, false
	}
}

// MatchesWildcard reports whether other is a concrete instance of the same
// Kind as a wildcard t, per §3's "wildcard ... matching any concrete instance
// of the same variant during comparison".
func (t *Type) MatchesWildcard(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Wildcard {
		return t.Kind == other.Kind
	}
	if other.Wildcard {
		return t.Kind == other.Kind
	}
	return t.Kind == other.Kind
}
