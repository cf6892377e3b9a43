package codegen

import (
	"fmt"

	"github.com/viant/diffingo/ir"
)

// LengthExpr renders a field's %length attribute (or, for a vector, its
// length expression) as a Go expression string evaluating to an int, for
// use in generated parse/serialize code.
//
// Two shapes are supported: a literal constant, and a bare single-component
// ID naming a sibling field already parsed into recv (mirroring
// depanalysis.trackPath's reading of the same attribute shape as an
// implicit sibling reference). Anything richer reports false; the parser
// and serializer generators then render a literal 0 in its place.
func LengthExpr(e *ir.Expr, recv string) (string, bool) {
	if e == nil {
		return "", false
	}
	switch e.Kind {
	case ir.ExprConstant:
		if e.ConstType != nil && e.ConstType.Kind == ir.KindInteger {
			return fmt.Sprintf("%d", e.ConstVal.Int), true
		}
		return "", false
	case ir.ExprID:
		parts := e.IDPath.Parts()
		if len(parts) != 1 {
			return "", false
		}
		return fmt.Sprintf("int(%s.%s)", recv, FieldName(parts[0])), true
	default:
		return "", false
	}
}
