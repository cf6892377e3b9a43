package dfnast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/dfnast"
	"github.com/viant/diffingo/ir"
)

func TestModule_BuildsOneUnitOneInstantiation(t *testing.T) {
	key := dfnast.WithLength(dfnast.Field("key", dfnast.Bytes()), "key_len")
	unit := dfnast.Unit("Header",
		dfnast.Field("opcode", dfnast.Uint8()),
		dfnast.Field("key_len", dfnast.Uint16()),
		key,
	)

	m := dfnast.Module("pkg", "Header", unit, "req", "opcode", "key")

	decl, ok := m.Lookup(ir.NewID("Header"))
	require.True(t, ok)
	assert.Equal(t, ir.DeclType, decl.Kind)
	assert.Len(t, decl.TypeVal.UnitItems, 3)

	inst, ok := m.Lookup(ir.NewID("req"))
	require.True(t, ok)
	assert.Equal(t, ir.DeclUnitInstantiation, inst.Kind)
	require.Len(t, inst.Items, 2)
}

func TestWithLengthExpr_BuildsSubtractionChain(t *testing.T) {
	value := dfnast.WithLengthExpr(dfnast.Field("value", dfnast.Bytes()),
		dfnast.Sub(dfnast.Sub(dfnast.Ref("total_len"), dfnast.Ref("key_len")), dfnast.Ref("extras_len")))

	attr, ok := value.Attrs.Get(ir.AttrLength)
	require.True(t, ok)
	assert.Equal(t, ir.OpMinus, attr.Value.Op)
}

func TestWithByteOrder_SetsAttribute(t *testing.T) {
	x := dfnast.WithByteOrder(dfnast.Field("x", dfnast.Uint16()), "big")
	attr, ok := x.Attrs.Get(ir.AttrByteOrder)
	require.True(t, ok)
	assert.Equal(t, "big", attr.Value.IDPath.Last())
}
