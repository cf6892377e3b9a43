package ir

// Module owns a name ID, a properties map, an ordered list of declarations,
// and a root scope (§3). Lifecycle: created once per spec file by the
// surface parser; declarations of included files are merged by prepending.
type Module struct {
	Name       ID
	Properties *AttributeMap
	Decls      []*Declaration
	Root       *Scope

	declByID map[string]*Declaration
}

// NewModule creates an empty module with a fresh root scope.
func NewModule(name ID) *Module {
	m := &Module{Name: name, Properties: NewAttributeMap(), declByID: map[string]*Declaration{}}
	m.Root = NewScope(name.String(), nil)
	return m
}

// AddDecl appends a declaration to the module.
func (m *Module) AddDecl(d *Declaration) {
	m.Decls = append(m.Decls, d)
	m.declByID[d.ID.String()] = d
}

// Lookup returns the declaration with the given ID, if any.
func (m *Module) Lookup(id ID) (*Declaration, bool) {
	d, ok := m.declByID[id.String()]
	return d, ok
}

// MergeIncluded prepends another module's declarations onto this one, per
// §3's "declarations of included files are merged by prepending".
func (m *Module) MergeIncluded(included *Module) {
	m.Decls = append(included.Decls, m.Decls...)
	for k, v := range included.declByID {
		if _, exists := m.declByID[k]; !exists {
			m.declByID[k] = v
		}
	}
}
