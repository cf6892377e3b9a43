package serializer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/builder"
	"github.com/viant/diffingo/codegen/serializer"
	"github.com/viant/diffingo/ir"
)

func u8() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 8, Signed: false} }
func u16() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 16, Signed: false} }

func render(t *testing.T, decl *ir.Declaration) string {
	t.Helper()
	file, err := serializer.New().Generate(decl)
	require.NoError(t, err)
	out, err := (&builder.Printer{}).Print(file)
	require.NoError(t, err)
	return string(out)
}

func TestGenerate_IntegerFieldUsesByteOrderHelper(t *testing.T) {
	x := ir.NewAtomicField("x", u16())
	x.Attrs.Set(ir.NewAttribute(ir.AttrByteOrder, ir.NewIDExpr(ir.NewID("big"))))
	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{x}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "runtime.SerializeUint16(out[cursor:], u.X, runtime.BigEndian)")
}

func TestGenerate_OutBufFullSavesPCAndReturns(t *testing.T) {
	a := ir.NewAtomicField("a", u8())
	b := ir.NewAtomicField("b", u16())
	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{a, b}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "field0:")
	assert.Contains(t, src, "field1:")
	assert.Contains(t, src, "top.PC = 1")
	assert.Contains(t, src, "return cursor, runtime.OutBufFull")
}

func TestGenerate_VarBytesRewritesSiblingLength(t *testing.T) {
	keyLen := ir.NewAtomicField("key_len", u8())
	key := ir.NewAtomicField("key", &ir.Type{Kind: ir.KindBytes})
	key.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewIDExpr(ir.NewID("key_len"))))

	unit := ir.NewUnit(ir.NewID("u"), nil, []*ir.UnitItem{keyLen, key}, nil)
	decl := ir.NewTypeDecl(ir.NewID("u"), unit, ir.Exported)

	src := render(t, decl)
	assert.Contains(t, src, "data := u.Key.Bytes(out)")
	assert.Contains(t, src, "u.KeyLen = uint32(len(data))", "the length field is recomputed from the actual value, never trusted as-is")
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
