// Package codegen holds the pieces shared by parser (C9) and
// serializer (C10): mapping a compacted unit's ir.Type fields onto Go
// field names/types and resolving the `byteorder` inherited property, so
// the two generators stay consistent with each other the way the
// teacher's golang.Emitter and golang.Inspector share inspector/graph's
// type model instead of each defining their own.
package codegen

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/ir"
	"github.com/viant/diffingo/runtime"
)

// FieldName renders a unit item's name as an exported Go identifier
// (PascalCase), matching the teacher's IsExported convention of comparing
// the first rune to its upper-cased form (inspector/coder/coder.go).
func FieldName(name string) string {
	if name == "" {
		return name
	}
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	b := strings.Builder{}
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// GoType maps an ir.Type (as seen on the wire, i.e. SerializedTypeOf) to
// the Go type used for a compacted unit's struct field.
func GoType(t *ir.Type) string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case ir.KindBool:
		return "bool"
	case ir.KindInteger:
		return integerType(t.Width, t.Signed)
	case ir.KindDouble:
		return "float64"
	case ir.KindBytes:
		return "runtime.VarBytes"
	case ir.KindString:
		return "runtime.VarString"
	case ir.KindEnum, ir.KindBitset, ir.KindUnit:
		return t.ID.String()
	case ir.KindVector, ir.KindList:
		return "[]" + GoType(t.Elem)
	default:
		return "any"
	}
}

func integerType(width int, signed bool) string {
	if width <= 0 {
		width = 32
	}
	if signed {
		return "int" + itoa(width)
	}
	return "uint" + itoa(width)
}

func itoa(n int) string {
	switch n {
	case 8, 16, 32, 64:
		return []string{8: "8", 16: "16", 32: "32", 64: "64"}[n]
	default:
		return "32"
	}
}

// ByteOrder resolves the nearest enclosing %byteorder property for it,
// falling back to big-endian with a logged warning per §4.8's "big is the
// fallback with a warning".
func ByteOrder(it *ir.UnitItem, log logrus.FieldLogger) runtime.ByteOrder {
	if it.Attrs != nil {
		if a, ok := it.Attrs.Get(ir.AttrByteOrder); ok && a.Value != nil && a.Value.Kind == ir.ExprID {
			switch a.Value.IDPath.Last() {
			case "little":
				return runtime.LittleEndian
			case "big":
				return runtime.BigEndian
			}
		}
	}
	if log != nil {
		log.Warnf("field %q: no byteorder property in scope, defaulting to big-endian", it.Name)
	}
	return runtime.BigEndian
}
