// Package unitscope implements C5: it populates each unit's type scope with
// self, $$, and unit parameters, and gives every flattened item (including
// items nested inside switch cases) its own scope parented on the unit
// scope. Grounded on the teacher's scope-per-block construction in
// analyzer.walk's "block" case (analyzer/node.go), generalized from lexical
// blocks to unit items.
package unitscope

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/ir"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger attaches a logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Builder) { b.log = log }
}

// Builder runs C5 over a module.
type Builder struct {
	log logrus.FieldLogger
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build walks every Type declaration in m and, for each Unit payload,
// installs self/$$/parameter bindings and per-item scopes.
func (b *Builder) Build(m *ir.Module) {
	for _, decl := range m.Decls {
		if decl.Kind != ir.DeclType || decl.TypeVal == nil {
			continue
		}
		b.buildUnit(decl.TypeVal)
	}
}

func (b *Builder) buildUnit(unit *ir.Type) {
	if unit.Kind != ir.KindUnit {
		return
	}
	if unit.Scope == nil {
		unit.Scope = ir.NewScope(unit.ID.String(), nil)
	}
	unit.Scope.Bind("self", ir.NewParserStateExpr(ir.PSSelf, ir.ID{}, unit, &ir.Type{Kind: ir.KindUnit, ID: unit.ID, Wildcard: true}))
	for _, p := range unit.UnitParams {
		unit.Scope.Bind(p.Name, ir.NewParserStateExpr(ir.PSParameter, ir.NewID(p.Name), unit, p.Type))
	}
	b.buildItems(unit, unit.Scope, unit.UnitItems)
}

func (b *Builder) buildItems(unit *ir.Type, unitScope *ir.Scope, items []*ir.UnitItem) {
	for _, it := range items {
		b.buildItem(unit, unitScope, it)
	}
}

func (b *Builder) buildItem(unit *ir.Type, unitScope *ir.Scope, it *ir.UnitItem) {
	itemScope := it.Scope()
	itemScope.SetParent(unitScope)
	childKey := fmt.Sprintf("__item_%s", it.Name)
	dst := unitScope.Child(childKey)
	*dst = *itemScope.Alias(unitScope)
	it.SetScope(dst)

	ddType := dollarDollarType(it.Type)
	dst.Bind("$$", ir.NewParserStateExpr(ir.PSDollarDollar, it.ID, unit, ddType))

	switch it.FieldKind {
	case ir.FieldSwitch:
		for _, c := range it.Cases {
			b.buildItems(unit, dst, c.Items)
		}
	case ir.FieldVector, ir.FieldList:
		if it.Elem != nil {
			b.buildItem(unit, dst, it.Elem)
		}
	}
}

// dollarDollarType returns t with any RegExp variant replaced by Bytes, per §4.3.
func dollarDollarType(t *ir.Type) *ir.Type {
	if t == nil {
		return &ir.Type{Kind: ir.KindAny}
	}
	if t.Kind == ir.KindRegExp {
		return &ir.Type{Kind: ir.KindBytes}
	}
	return t
}
