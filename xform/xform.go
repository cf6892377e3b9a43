// Package xform implements C6, the transform resolver: it turns
// transform_to = T / transform = f attributes on unit items into a
// (serialized_type, internal_type) pair (§4.4). The C4 resolver is re-run
// after this pass to resolve the fresh Unknown(T) references it creates.
package xform

import (
	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/ir"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) { r.log = log }
}

// Resolver runs C6 over a module.
type Resolver struct {
	log logrus.FieldLogger
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run walks every unit in m, rewriting items carrying transform_to.
func (r *Resolver) Run(m *ir.Module) {
	for _, decl := range m.Decls {
		if decl.Kind != ir.DeclType || decl.TypeVal == nil || decl.TypeVal.Kind != ir.KindUnit {
			continue
		}
		r.walkItems(decl.TypeVal.UnitItems)
	}
}

func (r *Resolver) walkItems(items []*ir.UnitItem) {
	for _, it := range items {
		r.resolveOne(it)
		switch it.FieldKind {
		case ir.FieldSwitch:
			for _, c := range it.Cases {
				r.walkItems(c.Items)
			}
		case ir.FieldVector, ir.FieldList:
			if it.Elem != nil {
				r.resolveOne(it.Elem)
			}
		}
	}
}

func (r *Resolver) resolveOne(it *ir.UnitItem) {
	if it.Attrs == nil {
		return
	}
	if a, ok := it.Attrs.Get(ir.AttrTransformTo); ok {
		it.SerializedType = it.Type
		it.Type = targetType(a.Value)
	}
	// transform = f is reserved: no type rewrite (§4.4).
}

// targetType extracts the concrete *ir.Type named by a transform_to value,
// which is either an already-resolved Type expression (its inner type is
// used directly) or an ID (still unresolved) turned into a fresh
// Unknown(T) reference for the next C4 run to settle.
func targetType(v *ir.Expr) *ir.Type {
	e := v
	for e != nil && e.Kind == ir.ExprID && e.Resolved != nil {
		e = e.Resolved
	}
	if e != nil && e.Kind == ir.ExprType && e.TypeVal != nil {
		return e.TypeVal
	}
	if v != nil && v.Kind == ir.ExprID {
		return &ir.Type{Kind: ir.KindUnknown, UnknownID: v.IDPath}
	}
	return &ir.Type{Kind: ir.KindUnknown}
}
