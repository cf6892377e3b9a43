package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/builder"
	"github.com/viant/diffingo/codegen/parser"
	"github.com/viant/diffingo/ir"
)

func u8() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 8, Signed: false} }
func u16() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 16, Signed: false} }

func render(t *testing.T, decl *ir.Declaration) string {
	t.Helper()
	file, err := parser.New().Generate(decl)
	require.NoError(t, err)
	out, err := (&builder.Printer{}).Print(file)
	require.NoError(t, err)
	return string(out)
}

func TestGenerate_EmitsStructFieldsForEveryItem(t *testing.T) {
	opcode := ir.NewAtomicField("opcode", u8())
	key := ir.NewAtomicField("key", &ir.Type{Kind: ir.KindBytes})
	key.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewConstantExpr(u8(), ir.Value{Int: 4})))

	unit := ir.NewUnit(ir.NewID("req"), nil, []*ir.UnitItem{opcode, key}, nil)
	decl := ir.NewTypeDecl(ir.NewID("req"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "type Req struct {")
	assert.Contains(t, src, "Opcode uint8")
	assert.Contains(t, src, "Key runtime.VarBytes")
}

func TestGenerate_IntegerFieldUsesByteOrderHelper(t *testing.T) {
	x := ir.NewAtomicField("x", u16())
	x.Attrs.Set(ir.NewAttribute(ir.AttrByteOrder, ir.NewIDExpr(ir.NewID("big"))))
	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{x}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "runtime.ParseUint16(in[cursor:], runtime.BigEndian)")
	assert.Contains(t, src, "u.X = v")
}

func TestGenerate_OutOfDataSavesPCAndReturns(t *testing.T) {
	a := ir.NewAtomicField("a", u8())
	b := ir.NewAtomicField("b", u16())
	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{a, b}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "field0:")
	assert.Contains(t, src, "field1:")
	assert.Contains(t, src, "top.PC = 1")
	assert.Contains(t, src, "goto field1")
}

func TestGenerate_EntryDispatchesOnSavedPC(t *testing.T) {
	a := ir.NewAtomicField("a", u8())
	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{a}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "top, ok := state.Top()")
	assert.Contains(t, src, "state.Push(u)")
	assert.Contains(t, src, "switch top.PC {")
}

func TestGenerate_VarBytesAllocatesFromArea(t *testing.T) {
	lenField := ir.NewAtomicField("key_len", u8())
	key := ir.NewAtomicField("key", &ir.Type{Kind: ir.KindBytes})
	key.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewIDExpr(ir.NewID("key_len"))))

	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{lenField, key}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "length := int(u.KeyLen)")
	assert.Contains(t, src, "area.Allocate(length)")
	assert.Contains(t, src, "runtime.OwnedVarBytes(dst)")
}

func TestGenerate_SwitchDispatchesOnDiscriminator(t *testing.T) {
	disc := ir.NewIDExpr(ir.NewID("opcode"))
	sw := ir.NewSwitchField("body", disc)
	caseA := ir.NewAtomicField("a", u8())
	sw.Cases = []ir.SwitchCase{
		{Value: ir.NewConstantExpr(u8(), ir.Value{Int: 0}), Items: []*ir.UnitItem{caseA}},
	}
	opcode := ir.NewAtomicField("opcode", u8())
	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{opcode, sw}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "switch int(u.Opcode) {")
	assert.Contains(t, src, "case 0:")
}
