// Package dfnast is a hand-written AST builder for unit specifications.
// The surface-syntax lexer/grammar is out of scope (§1 of the distilled
// spec; the full surface parser is an external collaborator); this package
// gives tests and cmd/diffingo's --file loader a way to construct an
// *ir.Module without one. It is constructor functions wrapping the ir
// package's own NewUnit/NewAtomicField/NewUnitInstantiationDecl family --
// not a grammar, not a lexer, not a general parser.
//
// Grounded on the teacher's graph package exposing plain Go constructors
// (NewFile, NewType) as its only way to build a tree, generalized from
// "build an inspector.Document" to "build an ir.Module".
package dfnast

import "github.com/viant/diffingo/ir"

// Uint8/Uint16/Uint32/Uint64 build unsigned integer wire types of the
// matching width; Int8/Int16/Int32/Int64 build signed ones.
func Uint8() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 8, Signed: false} }
func Uint16() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 16, Signed: false} }
func Uint32() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 32, Signed: false} }
func Uint64() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 64, Signed: false} }
func Int8() *ir.Type   { return &ir.Type{Kind: ir.KindInteger, Width: 8, Signed: true} }
func Int16() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 16, Signed: true} }
func Int32() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 32, Signed: true} }
func Int64() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 64, Signed: true} }

// Bool builds a one-byte boolean wire type.
func Bool() *ir.Type { return &ir.Type{Kind: ir.KindBool} }

// Bytes builds a variable-length byte-range wire type.
func Bytes() *ir.Type { return &ir.Type{Kind: ir.KindBytes} }

// String builds a variable-length string wire type.
func String() *ir.Type { return &ir.Type{Kind: ir.KindString} }

// Field builds a plain atomic field over t, with no attributes set.
func Field(name string, t *ir.Type) *ir.UnitItem {
	return ir.NewAtomicField(name, t)
}

// WithLength attaches a %length attribute referencing a sibling field name,
// e.g. WithLength(key, "key_len") for `key: bytes %length=key_len;`.
func WithLength(f *ir.UnitItem, siblingName string) *ir.UnitItem {
	f.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewIDExpr(ir.NewID(siblingName))))
	return f
}

// WithLengthExpr attaches a %length attribute whose value is an arbitrary
// expression, e.g. the `total_len - key_len - extras_len` arithmetic S2
// describes for the `value` field.
func WithLengthExpr(f *ir.UnitItem, expr *ir.Expr) *ir.UnitItem {
	f.Attrs.Set(ir.NewAttribute(ir.AttrLength, expr))
	return f
}

// WithConstantLength attaches a %length attribute that is a fixed integer
// constant, e.g. `key: bytes %length=4;`.
func WithConstantLength(f *ir.UnitItem, n int64) *ir.UnitItem {
	f.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewConstantExpr(Uint32(), ir.Value{Int: n})))
	return f
}

// WithByteOrder attaches a %byteorder attribute; order is "big" or "little".
func WithByteOrder(f *ir.UnitItem, order string) *ir.UnitItem {
	f.Attrs.Set(ir.NewAttribute(ir.AttrByteOrder, ir.NewIDExpr(ir.NewID(order))))
	return f
}

// Sub subtracts b from a, for building length-arithmetic expressions such
// as S2's `total_len - key_len - extras_len`.
func Sub(a, b *ir.Expr) *ir.Expr {
	return ir.NewOperatorExpr(ir.OpMinus, a, b)
}

// Ref builds an ID-expression referencing a sibling field by name, for use
// with WithLengthExpr/Sub.
func Ref(name string) *ir.Expr {
	return ir.NewIDExpr(ir.NewID(name))
}

// Unit builds a top-level unit type from an ordered field list.
func Unit(name string, items ...*ir.UnitItem) *ir.Type {
	return ir.NewUnit(ir.NewID(name), nil, items, nil)
}

// Module wraps a single unit declaration plus an instantiation that
// references a subset of its fields into a ready-to-compile *ir.Module --
// the shape every one of §8's scenarios needs (one unit, one instantiation).
func Module(pkg, unitName string, unit *ir.Type, instName string, fieldNames ...string) *ir.Module {
	m := ir.NewModule(ir.NewID(pkg))
	m.AddDecl(ir.NewTypeDecl(unit.ID, unit, ir.Exported))

	items := make([]ir.InstantiationItem, 0, len(fieldNames))
	for _, fn := range fieldNames {
		items = append(items, ir.InstantiationItem{Path: ir.NewID(unitName, fn)})
	}
	m.AddDecl(ir.NewUnitInstantiationDecl(ir.NewID(instName), ir.NewID(unitName), items))
	return m
}
