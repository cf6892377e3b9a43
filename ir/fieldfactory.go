package ir

// NewFieldForType is the shared field factory (§4.5): given a type and field
// metadata, produce the right Field variant. Unit type -> Unit field; List
// type -> List container field whose inner field is produced recursively
// from the element type; any other type -> AtomicType.
func NewFieldForType(name string, t *Type) *UnitItem {
	switch t.Kind {
	case KindUnit:
		return &UnitItem{Kind: ItemField, FieldKind: FieldUnit, Name: name, ID: NewID(name), Type: t, UnitType: t, Attrs: NewAttributeMap(), ApplicationAccessible: true}
	case KindList:
		elem := NewFieldForType(name+"[]", t.Elem)
		item := NewListField(name, elem)
		item.ApplicationAccessible = true
		return item
	default:
		item := NewAtomicField(name, t)
		return item
	}
}
