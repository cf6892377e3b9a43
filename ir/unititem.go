package ir

// ItemKind discriminates the UnitItem sum: Property, Variable, or Field (§3).
type ItemKind int

const (
	ItemProperty ItemKind = iota
	ItemVariable
	ItemField
)

// FieldKind discriminates the Field sum (§3).
type FieldKind int

const (
	FieldAtomicType FieldKind = iota
	FieldConstant
	FieldCtor
	FieldUnit
	FieldSwitch
	FieldVector
	FieldList
	FieldUnknown
)

// SwitchCase is one arm of a Switch field; Value == nil marks the default arm.
type SwitchCase struct {
	Value *Expr
	Items []*UnitItem
}

// UnitItem is a unit-level Property, Variable, or Field, carrying the common
// metadata §3 lists for every item plus the fields specific to its kind.
// One struct with a kind tag, matching Type/Expr -- see the rationale on
// ir.Type.
type UnitItem struct {
	Kind ItemKind
	Name string
	ID   ID
	Loc  Location

	Type            *Type
	SerializedType  *Type // set by the transform resolver (C6) when different from Type
	Attrs           *AttributeMap
	Parent          *Type // containing unit (back-reference, §3 invariant 3)
	Condition       *Expr // field-level `if` guard, if any

	ParsingOnly          bool
	ApplicationAccessible bool
	Anonymous            bool

	FieldKind FieldKind

	// FieldCtor
	CtorExpr *Expr

	// FieldConstant
	ConstantExpr *Expr

	// FieldUnit (embedded sub-unit)
	UnitType *Type
	UnitArgs []*Expr

	// FieldSwitch
	Discriminator *Expr
	Cases         []SwitchCase

	// FieldVector / FieldList
	Elem       *UnitItem
	LengthExpr *Expr // Vector length; List elements are delimited, not length-counted

	// FieldUnknown (pre-resolution placeholder)
	UnknownRef *Expr

	// Variable
	VarExpr *Expr

	// Property
	PropValue *Expr

	itemScope *Scope
}

// SerializedTypeOf returns serialized_type() per §3 invariant 4: Type() when
// no transform is present, else the pre-transform type.
func (u *UnitItem) SerializedTypeOf() *Type {
	if u.SerializedType != nil {
		return u.SerializedType
	}
	return u.Type
}

// Scope returns the item's own scope (populated by C5), creating an empty one
// if the unit-scope-builder pass has not run yet.
func (u *UnitItem) Scope() *Scope {
	if u.itemScope == nil {
		u.itemScope = NewScope(u.Name, nil)
	}
	return u.itemScope
}

// SetScope installs the item's scope (called by C5).
func (u *UnitItem) SetScope(s *Scope) { u.itemScope = s }

// NewAtomicField builds a plain wire-datum field over t.
func NewAtomicField(name string, t *Type) *UnitItem {
	return &UnitItem{Kind: ItemField, FieldKind: FieldAtomicType, Name: name, ID: NewID(name), Type: t, Attrs: NewAttributeMap(), ApplicationAccessible: true}
}

// NewSwitchField builds a Switch field over a discriminator expression.
func NewSwitchField(name string, discriminator *Expr) *UnitItem {
	return &UnitItem{Kind: ItemField, FieldKind: FieldSwitch, Name: name, ID: NewID(name), Discriminator: discriminator, Attrs: NewAttributeMap(), Type: &Type{Kind: KindAny}}
}

// NewVectorField builds a length-counted container field.
func NewVectorField(name string, elem *UnitItem, length *Expr) *UnitItem {
	return &UnitItem{Kind: ItemField, FieldKind: FieldVector, Name: name, ID: NewID(name), Elem: elem, LengthExpr: length, Attrs: NewAttributeMap(), Type: &Type{Kind: KindVector, Elem: elem.Type}}
}

// NewListField builds a delimited container field.
func NewListField(name string, elem *UnitItem) *UnitItem {
	return &UnitItem{Kind: ItemField, FieldKind: FieldList, Name: name, ID: NewID(name), Elem: elem, Attrs: NewAttributeMap(), Type: &Type{Kind: KindList, Elem: elem.Type}}
}

// NewVariableItem builds a Variable unit item.
func NewVariableItem(name string, t *Type, expr *Expr) *UnitItem {
	return &UnitItem{Kind: ItemVariable, Name: name, ID: NewID(name), Type: t, VarExpr: expr, Attrs: NewAttributeMap()}
}

// NewPropertyItem builds a Property unit item.
func NewPropertyItem(name string, value *Expr) *UnitItem {
	return &UnitItem{Kind: ItemProperty, Name: name, ID: NewID(name), PropValue: value, Attrs: NewAttributeMap()}
}

// StaticLength returns the item's statically-known byte length if one exists:
// either an explicit `%length = <const>` attribute evaluating to a literal
// integer, or the field's serialized type's static width. Used by C8's
// length-sum coalescing (§4.7, §8 property 4).
func (u *UnitItem) StaticLength() (int, bool) {
	if u.Attrs != nil {
		if a, ok := u.Attrs.Get(AttrLength); ok && a.Value != nil {
			if a.Value.Kind == ExprConstant && a.Value.ConstType != nil && a.Value.ConstType.Kind == KindInteger {
				return int(a.Value.ConstVal.Int), true
			}
			return 0, false
		}
	}
	st := u.SerializedTypeOf()
	if st == nil {
		return 0, false
	}
	return st.StaticSerializedLength()
}
