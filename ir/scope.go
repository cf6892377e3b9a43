package ir

// Scope maps unscoped local names to the values bound to them (typically a
// reference to a type/constant/function/parser-state expression), with a
// parent link for lexical lookup and a child map keyed by scoped-name prefix
// for walking into nested namespaces (enum labels, bitset bits, unit items).
//
// Grounded on the teacher's linage.Scope (ID/Kind/Name/ParentID/Start/End)
// generalized with an actual binding table, since diffingo's scopes resolve
// identifiers to AST nodes rather than just recording lexical extents.
type Scope struct {
	Name     string
	Parent   *Scope
	bindings map[string][]*Expr
	children map[string]*Scope
}

// NewScope creates a scope with the given parent (nil for a module root scope).
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{Name: name, Parent: parent, bindings: map[string][]*Expr{}, children: map[string]*Scope{}}
}

// Bind adds a value to the list bound to name in this scope. Multiple binds
// under the same name are tolerated here (duplicate declarations are
// reported later by the resolver, per §4.1's "Failure" note).
func (s *Scope) Bind(name string, value *Expr) {
	if s.bindings == nil {
		s.bindings = map[string][]*Expr{}
	}
	s.bindings[name] = append(s.bindings[name], value)
}

// Lookup returns the values bound to name in this scope only (no parent walk).
func (s *Scope) Lookup(name string) []*Expr {
	if s == nil {
		return nil
	}
	return s.bindings[name]
}

// Resolve walks from this scope up through parents looking for name, stopping
// at the first scope that has any binding for it (§4.2's "search the
// enclosing scopes starting from the most specific").
func (s *Scope) Resolve(name string) []*Expr {
	for cur := s; cur != nil; cur = cur.Parent {
		if vs := cur.Lookup(name); len(vs) > 0 {
			return vs
		}
	}
	return nil
}

// Child returns the named child scope (a sub-namespace such as an enum's
// label scope or a unit item's own scope), creating it if absent.
func (s *Scope) Child(name string) *Scope {
	if s.children == nil {
		s.children = map[string]*Scope{}
	}
	if c, ok := s.children[name]; ok {
		return c
	}
	c := NewScope(name, s)
	s.children[name] = c
	return c
}

// LookupChild returns the named child scope without creating it.
func (s *Scope) LookupChild(name string) (*Scope, bool) {
	if s == nil || s.children == nil {
		return nil, false
	}
	c, ok := s.children[name]
	return c, ok
}

// SetParent rewires the scope's parent, used by Alias to share bindings but
// not lexical ancestry.
func (s *Scope) SetParent(parent *Scope) {
	s.Parent = parent
}

// Alias returns a scope that shares this scope's bindings/children maps but
// has its own (possibly different) parent link, per §3's "Alias() (shares
// data but has its own parent)".
func (s *Scope) Alias(parent *Scope) *Scope {
	return &Scope{Name: s.Name, Parent: parent, bindings: s.bindings, children: s.children}
}
