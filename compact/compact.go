// Package compact implements C8, the type compacter: for each unit
// instantiation it walks the referenced unit's items in declaration order and
// synthesizes a replacement unit carrying only what the dependency analyser
// (C7) found reachable, coalescing untouched runs of fields into opaque byte
// spans (§4.7).
//
// Grounded on the teacher's emitter-side struct-field filtering (inspector/
// golang/emitter.go builds a member list from what a document actually
// exposes) generalized from "what's exported" to "what the application
// actually reads or writes", and on node.go's recursive-rewrite-in-place
// style for the self-reference fixup.
package compact

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/ir"
)

// Option configures a Compacter.
type Option func(*Compacter)

// WithLogger attaches a logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Compacter) { c.log = log }
}

// Compacter runs C8 over a module.
type Compacter struct {
	log logrus.FieldLogger
}

// New creates a Compacter.
func New(opts ...Option) *Compacter {
	c := &Compacter{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run synthesizes a compacted unit for every instantiation in m whose
// dependencies (C7) have already been computed.
func (c *Compacter) Run(m *ir.Module) {
	for _, decl := range m.Decls {
		if decl.Kind != ir.DeclUnitInstantiation || decl.UnitTarget == nil {
			continue
		}
		compacted := c.compactInstantiation(decl)
		decl.SetCompactedUnits([]*ir.Declaration{compacted})
	}
}

func (c *Compacter) compactInstantiation(decl *ir.Declaration) *ir.Declaration {
	unit := decl.UnitTarget

	var unitItems []*ir.UnitItem
	var run []*ir.UnitItem
	opaqueSeq := 0

	flush := func() {
		if len(run) == 0 {
			return
		}
		unitItems = append(unitItems, flushRun(run, &opaqueSeq)...)
		run = nil
	}

	for _, it := range unit.UnitItems {
		ectx := effectiveContext(it, unit.ID, decl.Dependencies)
		if ectx == 0 {
			switch it.Kind {
			case ir.ItemField:
				run = append(run, it)
			case ir.ItemVariable:
				// Dropped silently: it will never be computed.
			case ir.ItemProperty:
				flush()
				unitItems = append(unitItems, it)
			}
			continue
		}
		flush()
		kept := *it
		kept.ParsingOnly = ectx == ir.Parsing
		unitItems = append(unitItems, &kept)
	}
	flush()

	compacted := ir.NewUnit(decl.ID, nil, unitItems, nil)
	fixupSelfReferences(compacted, unit, compacted)
	return ir.NewTypeDecl(decl.ID, compacted, ir.Exported)
}

// effectiveContext is the OR of every dependency's context whose id has
// <unit>::<item_name> as a prefix (§4.7): a dependency on a sub-path (a
// switch case, a container element) still keeps the containing item alive.
func effectiveContext(it *ir.UnitItem, unitID ir.ID, deps []ir.Dependency) ir.Context {
	itemID := unitID.Append(it.Name)
	var ctx ir.Context
	for _, d := range deps {
		if d.ID.HasPrefix(itemID) {
			ctx |= d.Context
		}
	}
	return ctx
}

// flushRun folds a contiguous run of unneeded fields into a single opaque
// byte span when every field's length is statically known (§8 property 4:
// the coalesced length is the sum of the run's static lengths), else passes
// each field through individually as an opaque, non-application-accessible
// item.
func flushRun(run []*ir.UnitItem, opaqueSeq *int) []*ir.UnitItem {
	lengths := make([]int, len(run))
	allStatic := true
	for i, it := range run {
		n, ok := it.StaticLength()
		if !ok {
			allStatic = false
			break
		}
		lengths[i] = n
	}

	if allStatic {
		sum := 0
		for _, n := range lengths {
			sum += n
		}
		*opaqueSeq++
		name := fmt.Sprintf("__opaque%d", *opaqueSeq)
		synthetic := ir.NewAtomicField(name, &ir.Type{Kind: ir.KindBytes})
		synthetic.ApplicationAccessible = false
		lenType := &ir.Type{Kind: ir.KindInteger, Width: 32, Signed: false}
		synthetic.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewConstantExpr(lenType, ir.Value{Int: int64(sum)})))
		return []*ir.UnitItem{synthetic}
	}

	out := make([]*ir.UnitItem, 0, len(run))
	for _, it := range run {
		opaque := &ir.UnitItem{
			Kind:                  ir.ItemField,
			FieldKind:             ir.FieldAtomicType,
			Name:                  it.Name,
			ID:                    it.ID,
			Loc:                   it.Loc,
			Type:                  &ir.Type{Kind: ir.KindBytes},
			Attrs:                 it.Attrs.Clone(),
			ApplicationAccessible: false,
		}
		out = append(out, opaque)
	}
	return out
}

// fixupSelfReferences rewrites every ParserState(Self) expression reachable
// from newUnit's items so it points at newUnit instead of oldUnit -- the
// retained items' attributes/conditions were copied by value from the
// original unit and still carry the old self pointer.
func fixupSelfReferences(compactedType, oldUnit, newUnit *ir.Type) {
	for _, it := range compactedType.UnitItems {
		walkItemExprs(it, func(e *ir.Expr) {
			if e.Kind == ir.ExprParserState && e.PSKind == ir.PSSelf && e.PSUnit == oldUnit {
				e.PSUnit = newUnit
				e.SetType(&ir.Type{Kind: ir.KindUnit, ID: newUnit.ID, Wildcard: true})
			}
		})
	}
}

// walkItemExprs visits every expression reachable from a unit item (its
// attribute values, condition, and kind-specific expression fields),
// recursing into switch cases and container elements.
func walkItemExprs(it *ir.UnitItem, fn func(*ir.Expr)) {
	if it == nil {
		return
	}
	for _, key := range it.Attrs.Keys() {
		a, _ := it.Attrs.Get(key)
		walkExprTree(a.Value, fn)
	}
	walkExprTree(it.Condition, fn)
	walkExprTree(it.CtorExpr, fn)
	walkExprTree(it.ConstantExpr, fn)
	walkExprTree(it.Discriminator, fn)
	walkExprTree(it.LengthExpr, fn)
	walkExprTree(it.VarExpr, fn)
	walkExprTree(it.PropValue, fn)
	for _, arg := range it.UnitArgs {
		walkExprTree(arg, fn)
	}
	for i := range it.Cases {
		walkExprTree(it.Cases[i].Value, fn)
		for _, ci := range it.Cases[i].Items {
			walkItemExprs(ci, fn)
		}
	}
	if it.Elem != nil {
		walkItemExprs(it.Elem, fn)
	}
}

// walkExprTree applies fn to e and recurses into every sub-expression.
func walkExprTree(e *ir.Expr, fn func(*ir.Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch e.Kind {
	case ir.ExprOperator, ir.ExprAssign:
		for _, op := range e.Operands {
			walkExprTree(op, fn)
		}
	case ir.ExprConditional:
		walkExprTree(e.Cond, fn)
		walkExprTree(e.Then, fn)
		walkExprTree(e.Else, fn)
	case ir.ExprMemberAttribute:
		walkExprTree(e.Receiver, fn)
	case ir.ExprFunction:
		walkExprTree(e.CallTarget, fn)
		for _, a := range e.CallArgs {
			walkExprTree(a, fn)
		}
	case ir.ExprListComprehension:
		walkExprTree(e.ListSource, fn)
		walkExprTree(e.ListBody, fn)
	case ir.ExprLambda:
		walkExprTree(e.LambdaBody, fn)
	case ir.ExprFind:
		walkExprTree(e.FindList, fn)
		walkExprTree(e.FindCond, fn)
		walkExprTree(e.FindFound, fn)
		walkExprTree(e.FindNotFound, fn)
	}
}
