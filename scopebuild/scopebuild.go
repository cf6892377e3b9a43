// Package scopebuild implements C3: it seeds a module's root scope with
// imported built-ins and binds every top-level declaration, so that C4 (the
// ID resolver) has something to look names up against. Grounded on the
// teacher's analyzer.Option functional-options constructor shape
// (analyzer/option.go) and on linage.Scope's bind-then-walk style.
package scopebuild

import (
	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/ir"
)

// Option configures a Builder, following the teacher's analyzer.Option pattern.
type Option func(*Builder)

// WithLogger attaches a logger used for non-fatal diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Builder) { b.log = log }
}

// Builder runs C3 over a module.
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

// ByteOrderTypeName names the built-in enum §4.1 seeds every module with.
const ByteOrderTypeName = "ByteOrder"

// Build seeds m's root scope with built-ins and binds every top-level
// declaration. Run once per module, before any ID references are resolved.
func (b *Builder) Build(m *ir.Module) {
	seedBuiltins(m)
	for _, decl := range m.Decls {
		b.bindDecl(m, decl)
	}
}

func (b *Builder) bindDecl(m *ir.Module, decl *ir.Declaration) {
	name := decl.ID.Last()
	switch decl.Kind {
	case ir.DeclType:
		expr := ir.NewTypeExpr(decl.TypeVal)
		m.Root.Bind(name, expr)
		if decl.TypeVal != nil && decl.TypeVal.HasSubScope() && decl.TypeVal.Scope != nil {
			// Link the type's own label/bit scope as a child scope under the
			// declaration's ID (§4.1): "if the declared type itself exposes a
			// sub-scope ... links that sub-scope as a child under the
			// declaration's ID".
			decl.TypeVal.Scope.SetParent(m.Root)
			linkChild(m.Root, name, decl.TypeVal.Scope)
		}
	case ir.DeclConstant:
		m.Root.Bind(name, ir.NewConstantExpr(decl.ConstType, decl.ConstVal))
	case ir.DeclFunction:
		m.Root.Bind(name, &ir.Expr{Kind: ir.ExprFunction, CallName: name})
	case ir.DeclTransform:
		m.Root.Bind(name, &ir.Expr{Kind: ir.ExprTransform, TransformDecl: decl})
	case ir.DeclUnitInstantiation:
		// Instantiations are not themselves looked up by ID elsewhere in the
		// pipeline; nothing to bind here.
	}
}

// linkChild installs child as the named child scope of parent, overwriting
// whatever scope Child() returns under that name (a fresh one if none
// existed) with an alias of the type's real sub-scope that shares its
// bindings.
func linkChild(parent *ir.Scope, name string, child *ir.Scope) {
	dst := parent.Child(name)
	// Splice the type's real sub-scope in place of the empty one Child()
	// just created, sharing its bindings (alias) but keeping parent as the
	// lexical ancestor.
	*dst = *child.Alias(parent)
}

func seedBuiltins(m *ir.Module) {
	byteOrder := ir.NewEnum(ir.NewID(ByteOrderTypeName), []ir.EnumLabel{
		{Name: "big", Value: 0},
		{Name: "little", Value: 1},
	}, m.Root)
	m.Root.Bind(ByteOrderTypeName, ir.NewTypeExpr(byteOrder))
	linkChild(m.Root, ByteOrderTypeName, byteOrder.Scope)

	m.Root.Bind("uppercase", &ir.Expr{Kind: ir.ExprFunction, CallName: "uppercase"})

	strType := &ir.Type{Kind: ir.KindString}
	u64 := &ir.Type{Kind: ir.KindInteger, Width: 64, Signed: false}
	u32 := &ir.Type{Kind: ir.KindInteger, Width: 32, Signed: false}

	bind := func(name string, from, to *ir.Type) {
		decl := &ir.Declaration{Kind: ir.DeclTransform, ID: ir.NewID(name), Linkage: ir.Imported, TransformFrom: from, TransformTo: to}
		m.Root.Bind(name, &ir.Expr{Kind: ir.ExprTransform, TransformDecl: decl})
	}
	bind("stringEncodedUint64", strType, u64)
	bind("hexStringEncodedUint64", strType, u64)
	bind("stringEncodedUint32", strType, u32)
}
