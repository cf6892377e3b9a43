// Package serializer implements C10, the serializer generator: it
// lowers a compacted unit into a Go Serialize method that writes the
// struct back to wire format using the runtime package's byte-order-aware
// codecs (§4.9).
//
// Grounded the same way as parser (builder.Printer for rendering, no
// teacher analogue for the control flow itself); unlike the parser, §4.9
// gives the serializer a length-rewrite responsibility -- a var_bytes
// field's sibling length field is recomputed from the field's actual
// length rather than trusted from the struct, so a caller that only ever
// mutates application-accessible fields can't desynchronize the two.
package serializer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/builder"
	"github.com/viant/diffingo/codegen"
	"github.com/viant/diffingo/ir"
	"github.com/viant/diffingo/runtime"
)

// Option configures a Generator.
type Option func(*Generator)

// WithLogger attaches a logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Generator) { g.log = log }
}

// Generator runs C10 over a compacted unit.
type Generator struct {
	log logrus.FieldLogger
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate lowers decl into a Go source file declaring its Serialize
// method. The struct itself is parser's responsibility; a compiled
// unit's parser and serializer are emitted into the same package and
// share one struct declaration.
func (g *Generator) Generate(decl *ir.Declaration) (*builder.File, error) {
	unit := decl.TypeVal
	typeName := codegen.FieldName(decl.ID.Last())

	file := builder.NewFile(decl.ID.Last())
	file.AddImport("github.com/viant/diffingo/runtime")

	fn := file.AddFunction("Serialize")
	fn.Receiver = fmt.Sprintf("u *%s", typeName)
	fn.Params = []builder.Param{
		{Name: "out", Type: "[]byte"},
		{Name: "state", Type: "*runtime.ParserState"},
	}
	fn.Results = []builder.Param{
		{Name: "bytesWritten", Type: "int"},
		{Name: "result", Type: "runtime.SerializeResult"},
	}

	fields := make([]*ir.UnitItem, 0, len(unit.UnitItems))
	for _, it := range unit.UnitItems {
		if it.Kind == ir.ItemField {
			fields = append(fields, it)
		}
	}

	e := &emitter{recv: "u", log: g.log}
	// Length rewrite: every sibling length field named by a var field's
	// %length is recomputed before the first field is written.
	var body []string
	for _, it := range fields {
		a, ok := it.Attrs.Get(ir.AttrLength)
		if wire := it.SerializedTypeOf(); it.FieldKind != ir.FieldAtomicType || wire == nil || (wire.Kind != ir.KindBytes && wire.Kind != ir.KindString) || !ok || a.Value == nil || a.Value.Kind != ir.ExprID || len(a.Value.IDPath.Parts()) != 1 {
			continue
		}
		sibling := codegen.FieldName(a.Value.IDPath.Parts()[0])
		body = append(body, "{", fmt.Sprintf("\tdata := %s.%s.Bytes(out)", e.recv, codegen.FieldName(it.Name)), fmt.Sprintf("\t%s.%s = %s(len(data))", e.recv, sibling, sizeCast(it)), "}")
	}
	body = append(body, e.entryPrologue(len(fields))...)
	for i, it := range fields {
		body = append(body, e.field(it, i)...)
	}
	body = append(body, "state.Pop()", "return cursor, runtime.SerializeDone")

	fn.Body = body
	return file, nil
}

type emitter struct {
	recv string
	log  logrus.FieldLogger
}

func (e *emitter) entryPrologue(fieldCount int) []string {
	lines := []string{
		"cursor := 0",
		"top, ok := state.Top()",
		"if !ok {",
		fmt.Sprintf("\tstate.Push(%s)", e.recv),
		"\ttop, _ = state.Top()",
		"}",
		"switch top.PC {",
	}
	for i := 0; i < fieldCount; i++ {
		lines = append(lines, fmt.Sprintf("case %d:", i), fmt.Sprintf("\tgoto field%d", i))
	}
	lines = append(lines, "}")
	return lines
}

// field lowers one unit item into its label and serialize statements. Each
// field gets its own block scope (the label is immediately followed by
// "{" ... "}") so that two atomic fields in a row don't redeclare the same
// ":=" names -- goto may jump to the label since no variable has come into
// scope yet at that point.
func (e *emitter) field(it *ir.UnitItem, pc int) []string {
	label := fmt.Sprintf("field%d:", pc)
	body := e.fieldBody(it, pc)
	out := make([]string, 0, len(body)+3)
	out = append(out, label, "{")
	for _, stmt := range body {
		out = append(out, "\t"+stmt)
	}
	out = append(out, "}")
	return out
}

func (e *emitter) fieldBody(it *ir.UnitItem, pc int) []string {
	wire := it.SerializedTypeOf()
	name := codegen.FieldName(it.Name)

	switch it.FieldKind {
	case ir.FieldAtomicType:
		switch wire.Kind {
		case ir.KindInteger:
			return e.integerField(it, wire, name, pc)
		case ir.KindBool:
			return e.boolField(name, pc)
		case ir.KindBytes, ir.KindString:
			return e.varField(it, wire, name, pc)
		default:
			return []string{fmt.Sprintf("// TODO(%s): %s serializing not yet implemented", it.Name, wire.Kind)}
		}
	case ir.FieldSwitch:
		return e.switchField(it, pc)
	default:
		return []string{fmt.Sprintf("// TODO(%s): %v field kind not yet implemented", it.Name, it.FieldKind)}
	}
}

func (e *emitter) integerField(it *ir.UnitItem, wire *ir.Type, name string, pc int) []string {
	order := codegen.ByteOrder(it, e.log)
	helper := integerSerializeHelper(wire)
	orderArg := ""
	if wire.Width != 8 {
		orderArg = fmt.Sprintf(", %s", orderIdent(order))
	}
	return []string{
		fmt.Sprintf("n, r := runtime.%s(out[cursor:], %s.%s%s)", helper, e.recv, name, orderArg),
		"if r != runtime.SerializeDone {",
		fmt.Sprintf("\ttop.PC = %d", pc),
		"\treturn cursor, runtime.OutBufFull",
		"}",
		"cursor += n",
	}
}

func (e *emitter) boolField(name string, pc int) []string {
	return []string{
		"b := uint8(0)",
		fmt.Sprintf("if %s.%s {", e.recv, name),
		"\tb = 1",
		"}",
		"n, r := runtime.SerializeUint8(out[cursor:], b)",
		"if r != runtime.SerializeDone {",
		fmt.Sprintf("\ttop.PC = %d", pc),
		"\treturn cursor, runtime.OutBufFull",
		"}",
		"cursor += n",
	}
}

// varField writes a var_bytes/var_string field's raw bytes. The sibling
// length field named by %length has already been recomputed from the
// value's actual length by Generate's length rewrite (§4.9), so the wire
// length attribute is never trusted from application-mutated state.
func (e *emitter) varField(it *ir.UnitItem, wire *ir.Type, name string, pc int) []string {
	return []string{
		fmt.Sprintf("data := %s.%s.Bytes(out)", e.recv, name),
		"if cursor+len(data) > len(out) {",
		fmt.Sprintf("\ttop.PC = %d", pc),
		"\treturn cursor, runtime.OutBufFull",
		"}",
		"cursor += copy(out[cursor:], data)",
	}
}

func sizeCast(it *ir.UnitItem) string {
	// The sibling length field's declared width is not looked up here; the
	// cast is always uint32, so the generated assignment compiles only when
	// the sibling field is itself a uint32 (Go has no implicit narrowing).
	return "uint32"
}

func (e *emitter) switchField(it *ir.UnitItem, pc int) []string {
	disc := "0"
	if expr, ok := codegen.LengthExpr(it.Discriminator, e.recv); ok {
		disc = expr
	}
	lines := []string{fmt.Sprintf("switch %s {", disc)}
	for _, c := range it.Cases {
		if c.Value == nil {
			lines = append(lines, "default:")
		} else {
			v, _ := codegen.LengthExpr(c.Value, e.recv)
			lines = append(lines, fmt.Sprintf("case %s:", v))
		}
		for _, ci := range c.Items {
			for _, stmt := range e.fieldBody(ci, pc) {
				lines = append(lines, "\t"+stmt)
			}
		}
	}
	lines = append(lines, "}")
	return lines
}

func integerSerializeHelper(t *ir.Type) string {
	if t.Signed {
		return fmt.Sprintf("SerializeInt%d", t.Width)
	}
	return fmt.Sprintf("SerializeUint%d", t.Width)
}

func orderIdent(o runtime.ByteOrder) string {
	if o == runtime.LittleEndian {
		return "runtime.LittleEndian"
	}
	return "runtime.BigEndian"
}
