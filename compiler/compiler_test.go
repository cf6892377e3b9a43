package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/compiler"
	"github.com/viant/diffingo/ir"
)

func u8() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 8, Signed: false} }
func u16() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 16, Signed: false} }

// buildModule constructs a reduced memcached-style header unit (opcode,
// key_len, key) and an instantiation that only touches opcode and key,
// grounding S2 end to end through the whole pipeline.
func buildModule() *ir.Module {
	opcode := ir.NewAtomicField("opcode", u8())
	keyLen := ir.NewAtomicField("key_len", u16())
	key := ir.NewAtomicField("key", &ir.Type{Kind: ir.KindBytes})
	key.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewIDExpr(ir.NewID("key_len"))))

	unit := ir.NewUnit(ir.NewID("Header"), nil, []*ir.UnitItem{opcode, keyLen, key}, nil)

	inst := ir.NewUnitInstantiationDecl(ir.NewID("req"), ir.NewID("Header"), []ir.InstantiationItem{
		{Path: ir.NewID("Header", "opcode")},
		{Path: ir.NewID("Header", "key")},
	})

	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(unit.ID, unit, ir.Exported))
	m.AddDecl(inst)
	return m
}

func TestRun_PipelineProducesCompactedUnitWithDependenciesResolved(t *testing.T) {
	m := buildModule()

	d := compiler.New().Run(m)
	require.Nil(t, d, "a clean module must produce no diagnostics")

	inst, ok := m.Lookup(ir.NewID("req"))
	require.True(t, ok)
	require.NotNil(t, inst.UnitTarget, "C4 must resolve the instantiation target")
	require.NotEmpty(t, inst.Dependencies, "C7 must have populated dependencies")
	require.Len(t, inst.CompactedUnits, 1, "C8 must synthesize exactly one compacted unit")

	compacted := inst.CompactedUnits[0].TypeVal
	names := map[string]bool{}
	for _, it := range compacted.UnitItems {
		names[it.Name] = true
	}
	assert.True(t, names["opcode"])
	assert.True(t, names["key"])
	assert.True(t, names["key_len"], "key_len survives in the compacted unit because key's length depends on it")
}

func TestRun_StopsAtFirstFailingPass(t *testing.T) {
	inst := ir.NewUnitInstantiationDecl(ir.NewID("req"), ir.NewID("DoesNotExist"), nil)
	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(inst)

	d := compiler.New().Run(m)
	require.NotNil(t, d)
	assert.True(t, d.HasErrors())
	assert.Empty(t, inst.Dependencies, "no dependencies are computed for an instantiation whose unit never resolved")
}
