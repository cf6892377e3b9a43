package xform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/ir"
	"github.com/viant/diffingo/xform"
)

func TestRun_RewritesTransformTo(t *testing.T) {
	raw := ir.NewAtomicField("timestamp", &ir.Type{Kind: ir.KindInteger, Width: 64, Signed: false})
	raw.Attrs.Set(ir.NewAttribute(ir.AttrTransformTo, ir.NewIDExpr(ir.NewID("DateTime"))))

	unit := ir.NewUnit(ir.NewID("Event"), nil, []*ir.UnitItem{raw}, nil)

	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(ir.NewID("Event"), unit, ir.Exported))

	xform.New().Run(m)

	require.NotNil(t, raw.SerializedType)
	assert.Equal(t, ir.KindInteger, raw.SerializedType.Kind)
	assert.Equal(t, 64, raw.SerializedType.Width)

	require.NotNil(t, raw.Type)
	assert.Equal(t, ir.KindUnknown, raw.Type.Kind)
	assert.Equal(t, "DateTime", raw.Type.UnknownID.String())
}

func TestRun_TransformToAlreadyResolvedType(t *testing.T) {
	target := &ir.Type{Kind: ir.KindString}
	raw := ir.NewAtomicField("blob", &ir.Type{Kind: ir.KindBytes})
	raw.Attrs.Set(ir.NewAttribute(ir.AttrTransformTo, ir.NewTypeExpr(target)))

	unit := ir.NewUnit(ir.NewID("Event"), nil, []*ir.UnitItem{raw}, nil)
	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(ir.NewID("Event"), unit, ir.Exported))

	xform.New().Run(m)

	require.Same(t, target, raw.Type)
	assert.Equal(t, ir.KindBytes, raw.SerializedType.Kind)
}

func TestRun_LeavesPlainFieldsUntouched(t *testing.T) {
	field := ir.NewAtomicField("flag", &ir.Type{Kind: ir.KindBool})
	unit := ir.NewUnit(ir.NewID("Event"), nil, []*ir.UnitItem{field}, nil)
	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(ir.NewID("Event"), unit, ir.Exported))

	xform.New().Run(m)

	assert.Nil(t, field.SerializedType)
	assert.Equal(t, ir.KindBool, field.Type.Kind)
}

func TestRun_RecursesIntoSwitchCasesAndContainers(t *testing.T) {
	caseField := ir.NewAtomicField("payload", &ir.Type{Kind: ir.KindInteger, Width: 32})
	caseField.Attrs.Set(ir.NewAttribute(ir.AttrTransformTo, ir.NewIDExpr(ir.NewID("Money"))))

	sw := ir.NewSwitchField("body", ir.NewConstantExpr(&ir.Type{Kind: ir.KindInteger, Width: 8}, ir.Value{Int: 1}))
	sw.Cases = []ir.SwitchCase{{Value: nil, Items: []*ir.UnitItem{caseField}}}

	elem := ir.NewAtomicField("entry", &ir.Type{Kind: ir.KindInteger, Width: 16})
	elem.Attrs.Set(ir.NewAttribute(ir.AttrTransformTo, ir.NewIDExpr(ir.NewID("Flags"))))
	vec := ir.NewVectorField("entries", elem, ir.NewConstantExpr(&ir.Type{Kind: ir.KindInteger, Width: 32}, ir.Value{Int: 4}))

	unit := ir.NewUnit(ir.NewID("Event"), nil, []*ir.UnitItem{sw, vec}, nil)
	m := ir.NewModule(ir.NewID("pkg"))
	m.AddDecl(ir.NewTypeDecl(ir.NewID("Event"), unit, ir.Exported))

	xform.New().Run(m)

	require.NotNil(t, caseField.SerializedType)
	assert.Equal(t, ir.KindUnknown, caseField.Type.Kind)
	assert.Equal(t, "Money", caseField.Type.UnknownID.String())

	require.NotNil(t, elem.SerializedType)
	assert.Equal(t, ir.KindUnknown, elem.Type.Kind)
	assert.Equal(t, "Flags", elem.Type.UnknownID.String())
}
