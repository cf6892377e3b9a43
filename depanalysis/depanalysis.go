// Package depanalysis implements C7, the dependency analyser: for each unit
// instantiation it builds a per-id dependency map by walking the referenced
// unit, then computes its closure from the instantiation's declared fields
// (§4.6). The result tells the type compacter (C8) which items an
// application actually touches, and in what context.
//
// Grounded on the teacher's touchpoint/dependency-graph construction
// (analyzer/touchpoint.go's establishDependencies / applyTransitiveDependencies
// fixpoint-over-a-call-graph shape) generalized from a Go call graph to the
// diffingo attribute/expression dependency graph, and on node.go's
// stack-based "current context" walk (conditions stack, function stack).
package depanalysis

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/diag"
	"github.com/viant/diffingo/ir"
)

// Option configures an Analyser.
type Option func(*Analyser)

// WithLogger attaches a logger used for unrecognized-attribute warnings
// (§7 kind 6).
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Analyser) { a.log = log }
}

// Analyser runs C7 over a module.
type Analyser struct {
	log logrus.FieldLogger
}

// New creates an Analyser.
func New(opts ...Option) *Analyser {
	a := &Analyser{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// lengthID is the synthetic "__length" sentinel seeded with {Parsing} and
// threaded through any length-attribute expression's reads (§4.6).
var lengthID = ir.NewID("__length")

// Run analyses every unit instantiation in m, storing the resulting
// dependency list on each declaration.
func (a *Analyser) Run(m *ir.Module) *diag.List {
	d := diag.New()
	for _, decl := range m.Decls {
		if decl.Kind != ir.DeclUnitInstantiation {
			continue
		}
		if decl.UnitTarget == nil {
			d.Errorf("depanalysis", decl.Loc, "instantiation %q has an unresolved unit reference", decl.ID.String())
			continue
		}
		decl.Dependencies = a.analyseInstantiation(decl)
	}
	return d
}

func (a *Analyser) analyseInstantiation(decl *ir.Declaration) []ir.Dependency {
	dm := newDepMap()
	mb := &mapBuilder{dm: dm, log: a.log}
	mb.walkUnit(decl.UnitTarget, decl.UnitTarget.ID)
	return closure(dm, decl)
}

// --- map construction (M : id -> list<Dependency>) -------------------------

type edge struct {
	To      ir.ID
	Context ir.Context
}

type depMap struct {
	byKey map[string][]edge
}

func newDepMap() *depMap { return &depMap{byKey: map[string][]edge{}} }

func (m *depMap) add(from, to ir.ID, ctx ir.Context) {
	if to.Empty() {
		return
	}
	key := from.String()
	edges := m.byKey[key]
	for i := range edges {
		if edges[i].To.Equal(to) {
			edges[i].Context |= ctx
			m.byKey[key] = edges
			return
		}
	}
	m.byKey[key] = append(edges, edge{To: to, Context: ctx})
}

// mapBuilder walks a unit's items, recording, for each item's own id, the
// other ids its attributes/conditions/expressions read (and the context
// under which they are read).
type mapBuilder struct {
	dm  *depMap
	log logrus.FieldLogger
}

func (b *mapBuilder) walkUnit(unit *ir.Type, unitPath ir.ID) {
	for _, it := range unit.UnitItems {
		b.walkItem(unit, unitPath, unitPath.Append(it.Name), it)
	}
}

// walkItem analyses one item whose "$$" path is itemID, nested (for unit,
// switch-case, and container recursion) under the enclosing unit's path
// unitPath.
func (b *mapBuilder) walkItem(unit *ir.Type, unitPath, itemID ir.ID, it *ir.UnitItem) {
	for _, key := range it.Attrs.Keys() {
		if key == ir.AttrTransform || key == ir.AttrTransformTo {
			continue
		}
		attr, _ := it.Attrs.Get(key)
		if attr.Value == nil {
			continue
		}
		ctx, recognized := attrContext(key)
		if !recognized {
			b.log.Warnf("depanalysis: unit %q item %q: unrecognized attribute %q treated as Parsing|Serializing", unit.ID.String(), it.Name, key)
		}
		from := []ir.ID{itemID}
		if key == ir.AttrLength {
			from = append(from, lengthID)
		}
		b.analyzeExpr(attr.Value, unitPath, itemID, ir.ID{}, from, ctx)
	}

	if it.Condition != nil {
		b.analyzeExpr(it.Condition, unitPath, itemID, ir.ID{}, []ir.ID{itemID}, ctxBoth)
	}

	switch it.Kind {
	case ir.ItemVariable:
		if it.VarExpr != nil {
			b.analyzeExpr(it.VarExpr, unitPath, itemID, ir.ID{}, []ir.ID{itemID}, ctxBoth)
		}
		return
	case ir.ItemProperty:
		if it.PropValue != nil {
			b.analyzeExpr(it.PropValue, unitPath, itemID, ir.ID{}, []ir.ID{itemID}, ctxBoth)
		}
		return
	}

	switch it.FieldKind {
	case ir.FieldUnit:
		for _, arg := range it.UnitArgs {
			b.analyzeExpr(arg, unitPath, itemID, ir.ID{}, []ir.ID{itemID}, ctxBoth)
		}
		if it.UnitType != nil {
			b.walkUnit(it.UnitType, itemID)
		}
	case ir.FieldSwitch:
		if !caseLengthsEqual(it.Cases) {
			// The discriminator's own value must be parsed to know the
			// message's length, so it is itself a length dependency (tracked
			// under the __length sentinel, like any other length-expression
			// read) rather than only reachable once something else needs it.
			b.dm.add(lengthID, itemID, ir.Parsing)
		}
		if it.Discriminator != nil {
			b.analyzeExpr(it.Discriminator, unitPath, itemID, ir.ID{}, []ir.ID{itemID}, ctxBoth)
		}
		for _, c := range it.Cases {
			for _, ci := range c.Items {
				ciID := unitPath.Append(ci.Name)
				b.dm.add(ciID, itemID, ir.Parsing|ir.Serializing)
				b.walkItem(unit, unitPath, ciID, ci)
			}
		}
	case ir.FieldVector:
		if it.LengthExpr != nil {
			b.analyzeExpr(it.LengthExpr, unitPath, itemID, ir.ID{}, []ir.ID{itemID, lengthID}, ir.Parsing|ir.SerializingUpdate)
		}
		if it.Elem != nil {
			b.walkItem(unit, unitPath, itemID.Append("[]"), it.Elem)
		}
	case ir.FieldList:
		if it.Elem != nil {
			b.walkItem(unit, unitPath, itemID.Append("[]"), it.Elem)
		}
	}
}

// ctxBoth is the default context for conditions and other structural
// expressions the spec says are "analysed under the current context" without
// narrowing to one side.
const ctxBoth = ir.Parsing | ir.Serializing

func attrContext(key string) (ir.Context, bool) {
	switch key {
	case ir.AttrParse:
		return ir.Parsing, true
	case ir.AttrSerialize:
		return ir.Serializing, true
	case ir.AttrLength:
		return ir.Parsing | ir.SerializingUpdate, true
	case ir.AttrByteOrder, ir.AttrChunked:
		return ctxBoth, true
	default:
		return ctxBoth, false
	}
}

func caseLengthsEqual(cases []ir.SwitchCase) bool {
	var first int
	haveFirst := false
	for _, c := range cases {
		n, allStatic := caseStaticLength(c.Items)
		if !allStatic {
			return false
		}
		if !haveFirst {
			first, haveFirst = n, true
			continue
		}
		if n != first {
			return false
		}
	}
	return true
}

func caseStaticLength(items []*ir.UnitItem) (int, bool) {
	total := 0
	for _, it := range items {
		n, ok := it.StaticLength()
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}

// --- expression analysis ----------------------------------------------------

// trackPath computes the id path an expression denotes, without emitting any
// edges -- used both for the top of a "path-like" expression and to capture a
// Find's list id for its Variable sub-expressions (§4.6).
func trackPath(e *ir.Expr, unitPath, itemID, findListID ir.ID) ir.ID {
	if e == nil {
		return ir.ID{}
	}
	switch e.Kind {
	case ir.ExprID:
		// A bare single-component name inside a unit denotes a sibling item
		// (§4.6's $$ path is always <unit_path>::<item_name>); a
		// multi-component path is already fully qualified.
		if parts := e.IDPath.Parts(); len(parts) == 1 {
			return unitPath.Append(parts[0])
		}
		return e.IDPath
	case ir.ExprParserState:
		switch e.PSKind {
		case ir.PSSelf:
			return unitPath
		case ir.PSDollarDollar:
			return itemID
		default:
			return ir.ID{}
		}
	case ir.ExprMemberAttribute:
		recv := trackPath(e.Receiver, unitPath, itemID, findListID)
		if recv.Empty() {
			return e.Member
		}
		return recv.Combine(e.Member)
	case ir.ExprVariable:
		if findListID.Empty() {
			return ir.ID{}
		}
		return findListID.Append("[]")
	case ir.ExprOperator:
		switch e.Op {
		case ir.OpAttribute:
			if len(e.Operands) < 2 {
				return ir.ID{}
			}
			recv := trackPath(e.Operands[0], unitPath, itemID, findListID)
			name := trackPath(e.Operands[1], unitPath, itemID, findListID)
			switch {
			case recv.Empty():
				return name
			case name.Empty():
				return recv
			default:
				return recv.Combine(name)
			}
		case ir.OpIndex:
			if len(e.Operands) == 0 {
				return ir.ID{}
			}
			recv := trackPath(e.Operands[0], unitPath, itemID, findListID)
			if recv.Empty() {
				return ir.ID{}
			}
			return recv.Append("[]")
		}
	}
	return ir.ID{}
}

// analyzeExpr walks e recording dependency edges from every id in from onto
// whatever e reads, under ctx. unitPath/itemID/findListID give the current
// $$/self/find-list paths path-like sub-expressions resolve against.
func (b *mapBuilder) analyzeExpr(e *ir.Expr, unitPath, itemID, findListID ir.ID, from []ir.ID, ctx ir.Context) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ir.ExprID, ir.ExprParserState, ir.ExprVariable, ir.ExprMemberAttribute:
		b.emit(from, trackPath(e, unitPath, itemID, findListID), ctx)
		return
	case ir.ExprOperator:
		switch e.Op {
		case ir.OpAttribute, ir.OpIndex:
			b.emit(from, trackPath(e, unitPath, itemID, findListID), ctx)
			return
		case ir.OpAttributeAssign, ir.OpPlusAssign, ir.OpMinusAssign, ir.OpIndexAssign:
			if len(e.Operands) > 0 && ctx.Has(ir.Serializing) {
				dest := trackPath(e.Operands[0], unitPath, itemID, findListID)
				b.emit(from, dest, ir.SerializingUpdate)
			}
			for _, op := range operandsAfterFirst(e.Operands) {
				b.analyzeExpr(op, unitPath, itemID, findListID, from, ctx)
			}
			return
		case ir.OpMethodCall:
			b.analyzeExpr(e.CallTarget, unitPath, itemID, findListID, from, ctx)
			for _, arg := range e.CallArgs {
				b.analyzeExpr(arg, unitPath, itemID, findListID, from, ctx)
			}
			return
		default:
			for _, op := range e.Operands {
				b.analyzeExpr(op, unitPath, itemID, findListID, from, ctx)
			}
			return
		}
	case ir.ExprAssign:
		if len(e.Operands) >= 2 {
			if ctx.Has(ir.Serializing) {
				dest := trackPath(e.Operands[0], unitPath, itemID, findListID)
				b.emit(from, dest, ir.SerializingUpdate)
			}
			b.analyzeExpr(e.Operands[1], unitPath, itemID, findListID, from, ctx)
		}
		return
	case ir.ExprConditional:
		b.analyzeExpr(e.Cond, unitPath, itemID, findListID, from, ctx)
		b.analyzeExpr(e.Then, unitPath, itemID, findListID, from, ctx)
		b.analyzeExpr(e.Else, unitPath, itemID, findListID, from, ctx)
		return
	case ir.ExprFunction:
		b.analyzeExpr(e.CallTarget, unitPath, itemID, findListID, from, ctx)
		for _, arg := range e.CallArgs {
			b.analyzeExpr(arg, unitPath, itemID, findListID, from, ctx)
		}
		return
	case ir.ExprListComprehension:
		b.analyzeExpr(e.ListSource, unitPath, itemID, findListID, from, ctx)
		b.analyzeExpr(e.ListBody, unitPath, itemID, findListID, from, ctx)
		return
	case ir.ExprLambda:
		b.analyzeExpr(e.LambdaBody, unitPath, itemID, findListID, from, ctx)
		return
	case ir.ExprFind:
		b.analyzeExpr(e.FindList, unitPath, itemID, findListID, from, ctx)
		newFindList := trackPath(e.FindList, unitPath, itemID, findListID)
		b.analyzeExpr(e.FindCond, unitPath, itemID, newFindList, from, ctx)
		b.analyzeExpr(e.FindFound, unitPath, itemID, newFindList, from, ctx)
		b.analyzeExpr(e.FindNotFound, unitPath, itemID, newFindList, from, ctx)
		return
	default:
		// Constant, Type, Transform: no id path to track.
		return
	}
}

func operandsAfterFirst(operands []*ir.Expr) []*ir.Expr {
	if len(operands) <= 1 {
		return nil
	}
	return operands[1:]
}

func (b *mapBuilder) emit(from []ir.ID, to ir.ID, ctx ir.Context) {
	if to.Empty() {
		return
	}
	for _, f := range from {
		b.dm.add(f, to, ctx)
	}
}

// --- closure computation -----------------------------------------------------

// closure seeds the dependency list per §4.6 and iterates M to a fixpoint,
// finally dropping the __length sentinel.
func closure(dm *depMap, decl *ir.Declaration) []ir.Dependency {
	result := map[string]ir.Context{}
	ids := map[string]ir.ID{lengthID.String(): lengthID}
	result[lengthID.String()] = ir.Parsing

	for _, item := range decl.Items {
		key := item.Path.String()
		ids[key] = item.Path
		result[key] = result[key] | ir.Application
	}

	for {
		changed := false
		snapshot := make(map[string]ir.Context, len(result))
		for k, v := range result {
			snapshot[k] = v
		}
		for key, ctx := range snapshot {
			for _, e := range dm.byKey[key] {
				var narrowed ir.Context
				if ctx.Has(ir.Application) {
					narrowed = e.Context
				} else {
					narrowed = ctx & e.Context
				}
				if narrowed == 0 {
					continue
				}
				toKey := e.To.String()
				merged := result[toKey] | narrowed
				if merged != result[toKey] {
					result[toKey] = merged
					ids[toKey] = e.To
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	delete(result, lengthID.String())

	out := make([]ir.Dependency, 0, len(result))
	for key, ctx := range result {
		out = append(out, ir.Dependency{ID: ids[key], Context: ctx})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}
