package depanalysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/depanalysis"
	"github.com/viant/diffingo/ir"
)

func u8() *ir.Type  { return &ir.Type{Kind: ir.KindInteger, Width: 8, Signed: false} }
func u16() *ir.Type { return &ir.Type{Kind: ir.KindInteger, Width: 16, Signed: false} }

func depFor(deps []ir.Dependency, id ir.ID) (ir.Dependency, bool) {
	for _, d := range deps {
		if d.ID.Equal(id) {
			return d, true
		}
	}
	return ir.Dependency{}, false
}

// buildHeaderUnit builds a reduced memcached-style header: an application
// field ("key") whose length is carried by a sibling ("key_len"), and an
// unreferenced sibling ("extras"/"extras_len") that the instantiation never
// touches, grounding S2 (§8).
func buildHeaderUnit() *ir.Type {
	opcode := ir.NewAtomicField("opcode", u8())

	keyLen := ir.NewAtomicField("key_len", u16())

	key := ir.NewAtomicField("key", &ir.Type{Kind: ir.KindBytes})
	key.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewIDExpr(ir.NewID("key_len"))))

	extrasLen := ir.NewAtomicField("extras_len", u8())

	extras := ir.NewAtomicField("extras", &ir.Type{Kind: ir.KindBytes})
	extras.Attrs.Set(ir.NewAttribute(ir.AttrLength, ir.NewIDExpr(ir.NewID("extras_len"))))

	return ir.NewUnit(ir.NewID("Header"), nil, []*ir.UnitItem{opcode, keyLen, key, extrasLen, extras}, nil)
}

func TestRun_ApplicationFieldsAndLengthPropagation(t *testing.T) {
	unit := buildHeaderUnit()
	inst := ir.NewUnitInstantiationDecl(ir.NewID("req"), unit.ID, []ir.InstantiationItem{
		{Path: unit.ID.Append("opcode")},
		{Path: unit.ID.Append("key")},
	})
	inst.UnitTarget = unit

	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(unit.ID, unit, ir.Exported))
	m.AddDecl(inst)

	d := depanalysis.New().Run(m)
	require.False(t, d.HasErrors())

	opcodeDep, ok := depFor(inst.Dependencies, unit.ID.Append("opcode"))
	require.True(t, ok)
	assert.True(t, opcodeDep.Context.Has(ir.Application))

	keyDep, ok := depFor(inst.Dependencies, unit.ID.Append("key"))
	require.True(t, ok)
	assert.True(t, keyDep.Context.Has(ir.Application))

	keyLenDep, ok := depFor(inst.Dependencies, unit.ID.Append("key_len"))
	require.True(t, ok, "key_len must be reachable through key's length attribute")
	assert.True(t, keyLenDep.Context.Has(ir.Parsing))
	assert.False(t, keyLenDep.Context.Has(ir.Application), "key_len is never read by the application directly")

	extrasLenDep, ok := depFor(inst.Dependencies, unit.ID.Append("extras_len"))
	require.True(t, ok, "extras_len must be reachable through the __length sentinel even though extras itself is unreferenced")
	assert.True(t, extrasLenDep.Context.Has(ir.Parsing))
	assert.False(t, extrasLenDep.Context.Has(ir.Application))

	_, extrasFound := depFor(inst.Dependencies, unit.ID.Append("extras"))
	assert.False(t, extrasFound, "extras is never read by the application or by any other field, so it must be unreachable")
}

func TestRun_SwitchCaseDependsOnDiscriminator(t *testing.T) {
	disc := ir.NewConstantExpr(u8(), ir.Value{Int: 0})
	sw := ir.NewSwitchField("body", disc)

	caseA := ir.NewAtomicField("a", u16())
	caseB := ir.NewAtomicField("b", u16())
	sw.Cases = []ir.SwitchCase{
		{Value: ir.NewConstantExpr(u8(), ir.Value{Int: 0}), Items: []*ir.UnitItem{caseA}},
		{Value: ir.NewConstantExpr(u8(), ir.Value{Int: 1}), Items: []*ir.UnitItem{caseB}},
	}

	unit := ir.NewUnit(ir.NewID("Msg"), nil, []*ir.UnitItem{sw}, nil)
	inst := ir.NewUnitInstantiationDecl(ir.NewID("msg"), unit.ID, []ir.InstantiationItem{
		{Path: unit.ID.Append("a")},
	})
	inst.UnitTarget = unit

	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(unit.ID, unit, ir.Exported))
	m.AddDecl(inst)

	depanalysis.New().Run(m)

	swDep, ok := depFor(inst.Dependencies, unit.ID.Append("body"))
	require.True(t, ok, "the discriminator must be reachable because case item 'a' is instantiated")
	assert.True(t, swDep.Context.Has(ir.Parsing))
	assert.True(t, swDep.Context.Has(ir.Serializing))

	_, bFound := depFor(inst.Dependencies, unit.ID.Append("b"))
	assert.False(t, bFound, "case item 'b' is never referenced by the instantiation")
}

func TestRun_EqualLengthSwitchIsNotALengthDependency(t *testing.T) {
	disc := ir.NewConstantExpr(u8(), ir.Value{Int: 0})
	sw := ir.NewSwitchField("body", disc)
	caseA := ir.NewAtomicField("a", u16())
	caseB := ir.NewAtomicField("b", u16())
	sw.Cases = []ir.SwitchCase{
		{Value: ir.NewConstantExpr(u8(), ir.Value{Int: 0}), Items: []*ir.UnitItem{caseA}},
		{Value: ir.NewConstantExpr(u8(), ir.Value{Int: 1}), Items: []*ir.UnitItem{caseB}},
	}
	other := ir.NewAtomicField("unrelated", u8())

	unit := ir.NewUnit(ir.NewID("Msg"), nil, []*ir.UnitItem{sw, other}, nil)
	// Instantiation never touches the switch or its cases at all.
	inst := ir.NewUnitInstantiationDecl(ir.NewID("msg"), unit.ID, []ir.InstantiationItem{
		{Path: unit.ID.Append("unrelated")},
	})
	inst.UnitTarget = unit

	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(unit.ID, unit, ir.Exported))
	m.AddDecl(inst)

	depanalysis.New().Run(m)

	_, swFound := depFor(inst.Dependencies, unit.ID.Append("body"))
	assert.False(t, swFound, "equal-length cases mean the discriminator need not be parsed for length purposes")
}

func TestRun_UnequalLengthSwitchIsALengthDependency(t *testing.T) {
	disc := ir.NewConstantExpr(u8(), ir.Value{Int: 0})
	sw := ir.NewSwitchField("body", disc)
	caseA := ir.NewAtomicField("a", u8())
	caseB := ir.NewAtomicField("b", u16())
	sw.Cases = []ir.SwitchCase{
		{Value: ir.NewConstantExpr(u8(), ir.Value{Int: 0}), Items: []*ir.UnitItem{caseA}},
		{Value: ir.NewConstantExpr(u8(), ir.Value{Int: 1}), Items: []*ir.UnitItem{caseB}},
	}
	other := ir.NewAtomicField("unrelated", u8())

	unit := ir.NewUnit(ir.NewID("Msg"), nil, []*ir.UnitItem{sw, other}, nil)
	inst := ir.NewUnitInstantiationDecl(ir.NewID("msg"), unit.ID, []ir.InstantiationItem{
		{Path: unit.ID.Append("unrelated")},
	})
	inst.UnitTarget = unit

	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(unit.ID, unit, ir.Exported))
	m.AddDecl(inst)

	depanalysis.New().Run(m)

	swDep, ok := depFor(inst.Dependencies, unit.ID.Append("body"))
	require.True(t, ok, "unequal-length cases force the discriminator to be parsed to know the message length")
	assert.True(t, swDep.Context.Has(ir.Parsing))
}
