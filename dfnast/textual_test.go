package dfnast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/dfnast"
	"github.com/viant/diffingo/ir"
)

func TestLoadText_S1IntegerUnit(t *testing.T) {
	m, err := dfnast.LoadText(`
module pkg

unit U {
  x: uint16 %byteorder=big;
}

instantiate req = U(x);
`)
	require.NoError(t, err)

	decl, ok := m.Lookup(ir.NewID("U"))
	require.True(t, ok)
	require.Len(t, decl.TypeVal.UnitItems, 1)
	assert.Equal(t, "x", decl.TypeVal.UnitItems[0].Name)
	assert.Equal(t, 16, decl.TypeVal.UnitItems[0].Type.Width)

	inst, ok := m.Lookup(ir.NewID("req"))
	require.True(t, ok)
	assert.Equal(t, "U", inst.UnitRef.Last())
	require.Len(t, inst.Items, 1)
}

func TestLoadText_S2MemcachedStyleHeaderWithLengthArithmetic(t *testing.T) {
	m, err := dfnast.LoadText(`
module pkg

// binary header, comment lines are ignored
unit Header {
  magic: uint8;
  opcode: uint8;
  key_len: uint16 %byteorder=big;
  extras_len: uint8;
  total_len: uint32 %byteorder=big;
  extras: bytes %length=extras_len;
  key: bytes %length=key_len;
  value: bytes %length=total_len-key_len-extras_len;
}

instantiate req = Header(opcode, key);
`)
	require.NoError(t, err)

	decl, ok := m.Lookup(ir.NewID("Header"))
	require.True(t, ok)
	names := make([]string, 0, len(decl.TypeVal.UnitItems))
	for _, it := range decl.TypeVal.UnitItems {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"magic", "opcode", "key_len", "extras_len", "total_len", "extras", "key", "value"}, names)

	inst, ok := m.Lookup(ir.NewID("req"))
	require.True(t, ok)
	require.Len(t, inst.Items, 2)
	assert.Equal(t, "opcode", inst.Items[0].Path.Last())
	assert.Equal(t, "key", inst.Items[1].Path.Last())
}

func TestLoadText_RejectsUnrecognizedStatement(t *testing.T) {
	_, err := dfnast.LoadText("transform Foo = Bar;")
	assert.Error(t, err)
}

func TestLoadText_RejectsUnknownInstantiationUnit(t *testing.T) {
	_, err := dfnast.LoadText(`
unit U { x: uint8; }
instantiate req = Missing(x);
`)
	assert.Error(t, err)
}

func TestLoadText_DefaultsModuleNameWhenOmitted(t *testing.T) {
	m, err := dfnast.LoadText(`unit U { x: uint8; }`)
	require.NoError(t, err)
	assert.Equal(t, "main", m.Name.String())
}
