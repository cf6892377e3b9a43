package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/compiler"
	"github.com/viant/diffingo/dfnast"
	"github.com/viant/diffingo/ir"
)

func buildModule(t *testing.T) *ir.Module {
	t.Helper()
	m, err := dfnast.LoadText(`
module pkg

unit Header {
  opcode: uint8;
  key_len: uint16 %byteorder=big;
  key: bytes %length=key_len;
}

instantiate req = Header(opcode, key);
`)
	require.NoError(t, err)
	d := compiler.New().Run(m)
	require.Nil(t, d)
	return m
}

func TestGenerate_EmitsOneFilePerCompactedUnit(t *testing.T) {
	m := buildModule(t)
	files, err := generate(m, "pkg", &options{storeParsingOnly: true})
	require.NoError(t, err)
	require.Len(t, files, 2, "one compacted unit plus the original Header type")

	inst, _ := m.Lookup(ir.NewID("req"))
	compactedName := inst.CompactedUnits[0].ID.Last()
	file, ok := files[compactedName]
	require.True(t, ok)
	assert.Len(t, file.Funcs, 2, "Parse and Serialize both merged into one file")
}

func TestGenerate_InstantiationOnlySkipsOriginalType(t *testing.T) {
	m := buildModule(t)
	files, err := generate(m, "pkg", &options{instantiationOnly: true})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestApplyInputPointers_WrapsNonRuntimeFieldsOnly(t *testing.T) {
	m := buildModule(t)
	files, err := generate(m, "pkg", &options{inputPointers: true})
	require.NoError(t, err)

	inst, _ := m.Lookup(ir.NewID("req"))
	compactedName := inst.CompactedUnits[0].ID.Last()
	file := files[compactedName]

	for _, s := range file.Structs {
		for _, f := range s.Fields {
			if f.Type == "runtime.VarBytes" || f.Type == "runtime.VarString" {
				continue
			}
			assert.True(t, f.Type[0] == '*', "field %s should be pointer-wrapped, got %s", f.Name, f.Type)
		}
	}
}

func TestStructOnly_HasNoMethods(t *testing.T) {
	m := buildModule(t)
	decl, ok := m.Lookup(ir.NewID("Header"))
	require.True(t, ok)

	file, err := structOnly(decl, "pkg")
	require.NoError(t, err)
	assert.Empty(t, file.Funcs)
	require.Len(t, file.Structs, 1)
	assert.Equal(t, "Header", file.Structs[0].Name)
}
