package ir

// Linkage controls whether the code emitters touch a declaration (§3).
type Linkage int

const (
	Exported Linkage = iota
	Private
	Imported
)

// DeclKind discriminates the Declaration sum (§3).
type DeclKind int

const (
	DeclConstant DeclKind = iota
	DeclFunction
	DeclTransform
	DeclType
	DeclUnitInstantiation
)

// InstantiationItem is one field path the application declares it reads or
// writes on an instantiated unit.
type InstantiationItem struct {
	Path ID
}

// Declaration is a module-level Constant, Function, Transform, Type, or
// UnitInstantiation (§3); one struct with a kind tag, for the same
// replace-in-place reasons as Type/Expr/UnitItem.
type Declaration struct {
	Kind    DeclKind
	ID      ID
	Linkage Linkage
	Loc     Location

	// Constant
	ConstType *Type
	ConstVal  Value

	// Function
	FuncParams []*UnitParam
	FuncResult *Type
	FuncBody   *Expr

	// Transform
	TransformFrom *Type // serialized_type
	TransformTo   *Type // internal_type

	// Type
	TypeVal *Type

	// UnitInstantiation
	UnitRef    ID
	UnitTarget *Type // resolved unit type (set by C4 step c)
	Items      []InstantiationItem

	// Populated by C7.
	Dependencies []Dependency

	// Populated by C8: the synthesized compacted Unit declaration(s).
	CompactedUnits []*Declaration
}

// Dependency is one entry of a unit instantiation's dependency list (§4.6).
type Dependency struct {
	ID      ID
	Context Context
}

// Context is the bitmask attached to a dependency edge (§4.6, GLOSSARY).
type Context int

const (
	Application Context = 1 << iota
	Parsing
	Serializing
	SerializingUpdate
)

func (c Context) Has(bit Context) bool { return c&bit != 0 }

func (c Context) String() string {
	if c == 0 {
		return "none"
	}
	s := ""
	add := func(name string, bit Context) {
		if c.Has(bit) {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add("Application", Application)
	add("Parsing", Parsing)
	add("Serializing", Serializing)
	add("SerializingUpdate", SerializingUpdate)
	return s
}

// NewTypeDecl wraps a Type as a module-level declaration with the given linkage.
func NewTypeDecl(id ID, t *Type, linkage Linkage) *Declaration {
	return &Declaration{Kind: DeclType, ID: id, Linkage: linkage, TypeVal: t}
}

// NewUnitInstantiationDecl declares which fields of unitRef the application uses.
func NewUnitInstantiationDecl(id ID, unitRef ID, items []InstantiationItem) *Declaration {
	return &Declaration{Kind: DeclUnitInstantiation, ID: id, Linkage: Exported, UnitRef: unitRef, Items: items}
}

// SetCompactedUnits attaches the type-compacter's synthesized units (§4.7).
func (d *Declaration) SetCompactedUnits(units []*Declaration) {
	d.CompactedUnits = units
}
