// Package resolve implements C4, the ID resolver: it replaces Unknown type
// references and ID expressions with the bound AST node found through scope
// walking, rewrites lambda-bound variable references, and resolves unit-
// instantiation targets (§4.2). It runs three times over the pipeline (after
// C3, after C5, and finally after C8 with ReportUnresolved on), matching
// §2's data-flow line.
//
// Grounded on the teacher's analyzer.walk dispatch-by-node-type (analyzer/
// node.go) generalized from a tree-sitter *sitter.Node switch to an ir.Expr
// switch, and on analyzer/option.go's functional-options constructor shape.
package resolve

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/diag"
	"github.com/viant/diffingo/ir"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithReportUnresolved toggles whether a missing binding is a hard error
// (true, used on the final run per §4.2) or silently deferred to a later run
// (false, the default for the first two runs).
func WithReportUnresolved(v bool) Option {
	return func(r *Resolver) { r.reportUnresolved = v }
}

// Resolver runs C4 over a module.
type Resolver struct {
	log              logrus.FieldLogger
	reportUnresolved bool
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run performs one pre-order pass over m, resolving everything reachable.
func (r *Resolver) Run(m *ir.Module) *diag.List {
	d := diag.New()
	for _, decl := range m.Decls {
		r.resolveDecl(m, decl, d)
	}
	return d
}

func (r *Resolver) resolveDecl(m *ir.Module, decl *ir.Declaration, d *diag.List) {
	switch decl.Kind {
	case ir.DeclType:
		r.resolveType(m, m.Root, decl.TypeVal, d)
	case ir.DeclFunction:
		if decl.FuncBody != nil {
			r.resolveExpr(m, m.Root, decl.FuncBody, nil, d)
		}
	case ir.DeclUnitInstantiation:
		r.resolveInstantiation(m, decl, d)
	}
}

// resolveInstantiation implements §4.2.c.
func (r *Resolver) resolveInstantiation(m *ir.Module, decl *ir.Declaration, d *diag.List) {
	if decl.UnitTarget != nil {
		return
	}
	vals := resolveIDPath(m.Root, decl.UnitRef)
	if len(vals) == 0 {
		if stripped, ok := stripModule(m, decl.UnitRef); ok {
			vals = resolveIDPath(m.Root, stripped)
		}
	}
	if len(vals) == 0 {
		if r.reportUnresolved {
			d.Errorf("resolve", decl.Loc, "unresolved unit instantiation target %q", decl.UnitRef.String())
		}
		return
	}
	if len(vals) > 1 {
		d.Errorf("resolve", decl.Loc, "multiply-defined identifier %q", decl.UnitRef.String())
		return
	}
	target := vals[0]
	if target.Kind != ir.ExprType || target.TypeVal == nil || target.TypeVal.Kind != ir.KindUnit {
		d.Errorf("resolve", decl.Loc, "instantiation target %q is not a unit type", decl.UnitRef.String())
		return
	}
	decl.UnitTarget = target.TypeVal
}

// resolveType walks a Type, resolving Unknown references and recursing into
// unit items when t is a Unit type.
func (r *Resolver) resolveType(m *ir.Module, scope *ir.Scope, t *ir.Type, d *diag.List) {
	if t == nil {
		return
	}
	if t.Kind == ir.KindUnknown {
		r.resolveUnknownType(m, scope, t, d)
		return
	}
	switch t.Kind {
	case ir.KindUnit:
		r.resolveUnitItems(m, t, t.Scope, t.UnitItems, d)
	case ir.KindList, ir.KindVector, ir.KindSet:
		r.resolveType(m, scope, t.Elem, d)
	case ir.KindMap:
		r.resolveType(m, scope, t.Key, d)
		r.resolveType(m, scope, t.Value, d)
	case ir.KindTuple:
		for _, e := range t.Elems {
			r.resolveType(m, scope, e, d)
		}
	}
}

func (r *Resolver) resolveUnknownType(m *ir.Module, scope *ir.Scope, t *ir.Type, d *diag.List) {
	vals := resolveIDPath(scope, t.UnknownID)
	if len(vals) == 0 {
		if stripped, ok := stripModule(m, t.UnknownID); ok {
			vals = resolveIDPath(scope, stripped)
		}
	}
	if len(vals) == 0 {
		if r.reportUnresolved {
			d.Errorf("resolve", ir.Location{}, "unresolved type reference %q", t.UnknownID.String())
		}
		return
	}
	if len(vals) > 1 {
		d.Errorf("resolve", ir.Location{}, "multiply-defined identifier %q", t.UnknownID.String())
		return
	}
	bound := vals[0]
	if bound.Kind != ir.ExprType || bound.TypeVal == nil {
		d.Errorf("resolve", ir.Location{}, "%q does not name a type", t.UnknownID.String())
		return
	}
	*t = *bound.TypeVal
}

// resolveUnitItems recurses into every item of a unit, including items
// nested inside switch cases. It does not touch parent back-references;
// only resolveUnknownField sets one, on the field it installs.
func (r *Resolver) resolveUnitItems(m *ir.Module, unit *ir.Type, unitScope *ir.Scope, items []*ir.UnitItem, d *diag.List) {
	for _, it := range items {
		r.resolveItem(m, unit, it, d)
	}
}

func (r *Resolver) resolveItem(m *ir.Module, unit *ir.Type, it *ir.UnitItem, d *diag.List) {
	scope := it.Scope()
	if it.Condition != nil {
		r.resolveExpr(m, scope, it.Condition, nil, d)
	}
	for _, key := range it.Attrs.Keys() {
		a, _ := it.Attrs.Get(key)
		if a.Value != nil {
			r.resolveExpr(m, scope, a.Value, nil, d)
		}
	}
	r.resolveType(m, scope, it.Type, d)

	switch it.FieldKind {
	case ir.FieldUnknown:
		r.resolveUnknownField(m, unit, it, scope, d)
	case ir.FieldCtor:
		if it.CtorExpr != nil {
			r.resolveExpr(m, scope, it.CtorExpr, nil, d)
		}
	case ir.FieldConstant:
		if it.ConstantExpr != nil {
			r.resolveExpr(m, scope, it.ConstantExpr, nil, d)
		}
	case ir.FieldUnit:
		for _, a := range it.UnitArgs {
			r.resolveExpr(m, scope, a, nil, d)
		}
		r.resolveType(m, scope, it.UnitType, d)
	case ir.FieldSwitch:
		if it.Discriminator != nil {
			r.resolveExpr(m, scope, it.Discriminator, nil, d)
		}
		for ci := range it.Cases {
			c := &it.Cases[ci]
			if c.Value != nil {
				r.resolveExpr(m, scope, c.Value, nil, d)
			}
			r.resolveUnitItems(m, unit, scope, c.Items, d)
		}
	case ir.FieldVector:
		if it.LengthExpr != nil {
			r.resolveExpr(m, scope, it.LengthExpr, nil, d)
		}
		if it.Elem != nil {
			r.resolveItem(m, unit, it.Elem, d)
		}
	case ir.FieldList:
		if it.Elem != nil {
			r.resolveItem(m, unit, it.Elem, d)
		}
	}

	if it.Kind == ir.ItemVariable && it.VarExpr != nil {
		r.resolveExpr(m, scope, it.VarExpr, nil, d)
	}
	if it.Kind == ir.ItemProperty && it.PropValue != nil {
		r.resolveExpr(m, scope, it.PropValue, nil, d)
	}
}

// resolveUnknownField implements §4.2.d.
func (r *Resolver) resolveUnknownField(m *ir.Module, unit *ir.Type, it *ir.UnitItem, scope *ir.Scope, d *diag.List) {
	if it.UnknownRef == nil {
		return
	}
	r.resolveExpr(m, scope, it.UnknownRef, nil, d)
	resolved := it.UnknownRef
	if resolved.Kind == ir.ExprID && resolved.Resolved != nil {
		resolved = resolved.Resolved
	}
	if resolved.IsUnresolvedID() {
		// still unresolved; try again on a later run.
		return
	}

	var replacement *ir.UnitItem
	switch resolved.Kind {
	case ir.ExprCtor:
		replacement = &ir.UnitItem{Kind: ir.ItemField, FieldKind: ir.FieldCtor, CtorExpr: resolved}
	case ir.ExprConstant:
		replacement = &ir.UnitItem{Kind: ir.ItemField, FieldKind: ir.FieldConstant, ConstantExpr: resolved, Type: resolved.ConstType}
	case ir.ExprType:
		replacement = ir.NewFieldForType(it.Name, resolved.TypeVal)
	default:
		d.Errorf("resolve", it.Loc, "unexpected resolution for field %q placeholder", it.Name)
		return
	}

	// Preserve the original field's attributes, condition, name, location,
	// anonymity flag, and unit back-reference (§4.2.d).
	replacement.Name = it.Name
	replacement.ID = it.ID
	replacement.Attrs = it.Attrs
	replacement.Condition = it.Condition
	replacement.Loc = it.Loc
	replacement.Anonymous = it.Anonymous
	replacement.Parent = unit
	replacement.SetScope(scope)
	*it = *replacement
}

// resolveExpr recurses through an expression tree, resolving ID expressions
// and lambda variables. findCtx is the nearest enclosing Find expression, if
// any (§4.2.b).
func (r *Resolver) resolveExpr(m *ir.Module, scope *ir.Scope, e *ir.Expr, findCtx *ir.Expr, d *diag.List) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ir.ExprID:
		r.resolveIDExpr(m, scope, e, d)
	case ir.ExprFind:
		r.resolveExpr(m, scope, e.FindList, findCtx, d)
		r.resolveExpr(m, scope, e.FindCond, e, d)
		r.resolveExpr(m, scope, e.FindFound, e, d)
		r.resolveExpr(m, scope, e.FindNotFound, e, d)
	case ir.ExprLambda:
		if findCtx == nil {
			d.Errorf("resolve", e.Loc, "lambda expression outside of a Find")
			return
		}
		rewriteLambdaVar(e.LambdaBody, e.LambdaParam)
		r.resolveExpr(m, scope, e.LambdaBody, findCtx, d)
	case ir.ExprOperator:
		for _, op := range e.Operands {
			r.resolveExpr(m, scope, op, findCtx, d)
		}
	case ir.ExprConditional:
		r.resolveExpr(m, scope, e.Cond, findCtx, d)
		r.resolveExpr(m, scope, e.Then, findCtx, d)
		r.resolveExpr(m, scope, e.Else, findCtx, d)
	case ir.ExprAssign:
		for _, op := range e.Operands {
			r.resolveExpr(m, scope, op, findCtx, d)
		}
	case ir.ExprMemberAttribute:
		r.resolveExpr(m, scope, e.Receiver, findCtx, d)
	case ir.ExprFunction:
		r.resolveExpr(m, scope, e.CallTarget, findCtx, d)
		for _, a := range e.CallArgs {
			r.resolveExpr(m, scope, a, findCtx, d)
		}
	case ir.ExprListComprehension:
		r.resolveExpr(m, scope, e.ListSource, findCtx, d)
		r.resolveExpr(m, scope, e.ListBody, findCtx, d)
	case ir.ExprType:
		r.resolveType(m, scope, e.TypeVal, d)
	}
}

func (r *Resolver) resolveIDExpr(m *ir.Module, scope *ir.Scope, e *ir.Expr, d *diag.List) {
	vals := resolveIDPath(scope, e.IDPath)
	if len(vals) == 0 {
		if stripped, ok := stripModule(m, e.IDPath); ok {
			vals = resolveIDPath(scope, stripped)
		}
	}
	if len(vals) == 0 {
		if r.reportUnresolved {
			d.Errorf("resolve", e.Loc, "unresolved identifier %q", e.IDPath.String())
		}
		return
	}
	if len(vals) > 1 {
		d.Errorf("resolve", e.Loc, "multiply-defined identifier %q", e.IDPath.String())
		return
	}
	e.Resolved = vals[0]
}

// resolveIDPath walks scope for a (possibly multi-component) path: all but
// the final component step into a same-named child scope; the final
// component is looked up (not resolved through parents) in the scope that
// remains, except for a single-component path which uses the full lexical
// walk (§4.2.a: "search the enclosing scopes starting from the most
// specific").
func resolveIDPath(scope *ir.Scope, path ir.ID) []*ir.Expr {
	parts := path.Parts()
	if len(parts) == 0 {
		return nil
	}
	if len(parts) == 1 {
		return scope.Resolve(parts[0])
	}
	cur := scope
	for i := 0; i < len(parts)-1; i++ {
		child, ok := cur.LookupChild(parts[i])
		if !ok {
			return nil
		}
		cur = child
	}
	return cur.Lookup(parts[len(parts)-1])
}

// stripModule retries a lookup after removing a leading module-name
// component, per §4.2.a.
func stripModule(m *ir.Module, path ir.ID) (ir.ID, bool) {
	parts := path.Parts()
	if len(parts) < 2 {
		return ir.ID{}, false
	}
	if parts[0] != m.Name.Last() {
		return ir.ID{}, false
	}
	return ir.ParseID(strings.Join(parts[1:], "::")), true
}

// rewriteLambdaVar rewrites every ID expression in body whose path equals
// param into a Variable expression, per §4.2.b.
func rewriteLambdaVar(body *ir.Expr, param ir.ID) {
	if body == nil {
		return
	}
	if body.Kind == ir.ExprID && body.IDPath.Equal(param) {
		*body = *ir.NewVariableExpr(param)
		return
	}
	switch body.Kind {
	case ir.ExprOperator, ir.ExprAssign:
		for _, op := range body.Operands {
			rewriteLambdaVar(op, param)
		}
	case ir.ExprConditional:
		rewriteLambdaVar(body.Cond, param)
		rewriteLambdaVar(body.Then, param)
		rewriteLambdaVar(body.Else, param)
	case ir.ExprMemberAttribute:
		rewriteLambdaVar(body.Receiver, param)
	case ir.ExprFunction:
		rewriteLambdaVar(body.CallTarget, param)
		for _, a := range body.CallArgs {
			rewriteLambdaVar(a, param)
		}
	case ir.ExprListComprehension:
		rewriteLambdaVar(body.ListSource, param)
		rewriteLambdaVar(body.ListBody, param)
	}
}
