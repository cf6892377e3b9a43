package compact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/compact"
	"github.com/viant/diffingo/ir"
)

func u8() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 8, Signed: false} }
func u16() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 16, Signed: false} }

func itemNamed(items []*ir.UnitItem, name string) (*ir.UnitItem, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return nil, false
}

func TestRun_RetainsApplicationFieldsAndDropsUnreferenced(t *testing.T) {
	opcode := ir.NewAtomicField("opcode", u8())
	keyLen := ir.NewAtomicField("key_len", u16())
	key := ir.NewAtomicField("key", &ir.Type{Kind: ir.KindBytes})
	unit := ir.NewUnit(ir.NewID("Header"), nil, []*ir.UnitItem{opcode, keyLen, key}, nil)

	inst := ir.NewUnitInstantiationDecl(ir.NewID("req"), unit.ID, []ir.InstantiationItem{
		{Path: unit.ID.Append("opcode")},
		{Path: unit.ID.Append("key")},
	})
	inst.UnitTarget = unit
	inst.Dependencies = []ir.Dependency{
		{ID: unit.ID.Append("opcode"), Context: ir.Application},
		{ID: unit.ID.Append("key"), Context: ir.Application},
		{ID: unit.ID.Append("key_len"), Context: ir.Parsing},
	}

	compact.New().Run(moduleWith(inst))

	require.Len(t, inst.CompactedUnits, 1)
	compacted := inst.CompactedUnits[0]
	assert.Equal(t, inst.ID, compacted.TypeVal.ID)

	items := compacted.TypeVal.UnitItems
	opcodeOut, ok := itemNamed(items, "opcode")
	require.True(t, ok)
	assert.False(t, opcodeOut.ParsingOnly)

	keyOut, ok := itemNamed(items, "key")
	require.True(t, ok)
	assert.False(t, keyOut.ParsingOnly)

	keyLenOut, ok := itemNamed(items, "key_len")
	require.True(t, ok, "key_len has a non-zero (Parsing-only) effective context and must be retained")
	assert.True(t, keyLenOut.ParsingOnly)
}

func TestRun_CoalescesUnreferencedStaticLengthRun(t *testing.T) {
	a := ir.NewAtomicField("a", u8())
	b := ir.NewAtomicField("b", u16())
	kept := ir.NewAtomicField("kept", u8())
	unit := ir.NewUnit(ir.NewID("Frame"), nil, []*ir.UnitItem{a, b, kept}, nil)

	inst := ir.NewUnitInstantiationDecl(ir.NewID("frame"), unit.ID, []ir.InstantiationItem{
		{Path: unit.ID.Append("kept")},
	})
	inst.UnitTarget = unit
	inst.Dependencies = []ir.Dependency{
		{ID: unit.ID.Append("kept"), Context: ir.Application},
	}

	compact.New().Run(moduleWith(inst))

	items := inst.CompactedUnits[0].TypeVal.UnitItems
	require.Len(t, items, 2, "a and b coalesce into one opaque field, kept stays separate")

	opaque := items[0]
	assert.False(t, opaque.ApplicationAccessible)
	lenAttr, ok := opaque.Attrs.Get(ir.AttrLength)
	require.True(t, ok)
	require.NotNil(t, lenAttr.Value)
	assert.Equal(t, ir.ExprConstant, lenAttr.Value.Kind)
	assert.EqualValues(t, 3, lenAttr.Value.ConstVal.Int, "sum of a (1 byte) and b (2 bytes)")

	_, keptOk := itemNamed(items, "kept")
	assert.True(t, keptOk)
}

func TestRun_DropsVariablesSilentlyAndKeepsProperties(t *testing.T) {
	v := ir.NewVariableItem("scratch", u8(), ir.NewConstantExpr(u8(), ir.Value{Int: 1}))
	p := ir.NewPropertyItem("note", ir.NewConstantExpr(&ir.Type{Kind: ir.KindString}, ir.Value{String: "x"}))
	kept := ir.NewAtomicField("kept", u8())
	unit := ir.NewUnit(ir.NewID("U"), nil, []*ir.UnitItem{v, p, kept}, nil)

	inst := ir.NewUnitInstantiationDecl(ir.NewID("u"), unit.ID, []ir.InstantiationItem{
		{Path: unit.ID.Append("kept")},
	})
	inst.UnitTarget = unit
	inst.Dependencies = []ir.Dependency{
		{ID: unit.ID.Append("kept"), Context: ir.Application},
	}

	compact.New().Run(moduleWith(inst))

	items := inst.CompactedUnits[0].TypeVal.UnitItems
	_, scratchFound := itemNamed(items, "scratch")
	assert.False(t, scratchFound, "an unreferenced variable is dropped silently, never coalesced")

	_, noteFound := itemNamed(items, "note")
	assert.True(t, noteFound, "properties always copy through regardless of context")
}

// moduleWith returns a module containing only decl, for tests that only
// exercise Compacter.Run's iteration over m.Decls.
func moduleWith(decl *ir.Declaration) *ir.Module {
	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(decl)
	return m
}
