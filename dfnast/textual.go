package dfnast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/diffingo/ir"
)

// LoadText parses the tiny textual subset cmd/diffingo's --file flag
// accepts into an *ir.Module. It recognizes exactly three statement forms,
// one per line (semicolon-terminated, // line comments allowed), matching
// the informal notation spec.md itself uses for its own S1/S2 scenarios:
//
//	module <name>
//	unit <Name> { <field>: <type> [%attr=value ...]; ... }
//	instantiate <id> = <Unit>(<field>, <field>, ...);
//
// Recognized field types: uint8/16/32/64, int8/16/32/64, bool, bytes,
// string. Recognized attributes: %length=<id|int|expr>, %byteorder=big|
// little, where <expr> is a sequence of <id|int> joined by "-". This is
// deliberately not a general expression grammar -- just enough to express
// §8's S1/S2 scenarios and their length arithmetic.
//
// This is not a general parser: it has no error recovery, no location
// tracking beyond the failing line's text, and rejects anything outside
// the three forms above.
func LoadText(src string) (*ir.Module, error) {
	lines := stripComments(src)

	var moduleName string
	units := map[string]*ir.Type{}
	var unitOrder []string
	var instantiations []instStmt

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
			i++
		case strings.HasPrefix(line, "module "):
			moduleName = strings.TrimSpace(strings.TrimPrefix(line, "module "))
			i++
		case strings.HasPrefix(line, "unit "):
			name, unit, consumed, err := parseUnit(lines, i)
			if err != nil {
				return nil, err
			}
			units[name] = unit
			unitOrder = append(unitOrder, name)
			i += consumed
		case strings.HasPrefix(line, "instantiate "):
			stmt, err := parseInstantiate(line)
			if err != nil {
				return nil, err
			}
			instantiations = append(instantiations, stmt)
			i++
		default:
			return nil, fmt.Errorf("dfnast: unrecognized statement: %q", line)
		}
	}

	if moduleName == "" {
		moduleName = "main"
	}

	m := ir.NewModule(ir.NewID(moduleName))
	for _, name := range unitOrder {
		m.AddDecl(ir.NewTypeDecl(ir.NewID(name), units[name], ir.Exported))
	}
	for _, stmt := range instantiations {
		if _, ok := units[stmt.unitName]; !ok {
			return nil, fmt.Errorf("dfnast: instantiate references unknown unit %q", stmt.unitName)
		}
		items := make([]ir.InstantiationItem, 0, len(stmt.fields))
		for _, f := range stmt.fields {
			items = append(items, ir.InstantiationItem{Path: ir.NewID(stmt.unitName, f)})
		}
		m.AddDecl(ir.NewUnitInstantiationDecl(ir.NewID(stmt.id), ir.NewID(stmt.unitName), items))
	}
	return m, nil
}

type instStmt struct {
	id       string
	unitName string
	fields   []string
}

func stripComments(src string) []string {
	rawLines := strings.Split(src, "\n")
	out := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		if idx := strings.Index(l, "//"); idx >= 0 {
			l = l[:idx]
		}
		out = append(out, l)
	}
	return out
}

// parseUnit consumes the "unit Name {" line at lines[start] through its
// matching "}" line (or a whole "unit Name { ...; }" on one line),
// returning the unit type and the number of lines consumed.
func parseUnit(lines []string, start int) (string, *ir.Type, int, error) {
	header := strings.TrimSpace(lines[start])
	header = strings.TrimPrefix(header, "unit ")
	openIdx := strings.Index(header, "{")
	if openIdx < 0 {
		return "", nil, 0, fmt.Errorf("dfnast: unit declaration missing '{': %q", lines[start])
	}
	name := strings.TrimSpace(header[:openIdx])

	var items []*ir.UnitItem
	if closeIdx := strings.LastIndex(header, "}"); closeIdx > openIdx {
		for _, f := range strings.Split(header[openIdx+1:closeIdx], ";") {
			if strings.TrimSpace(f) == "" {
				continue
			}
			item, err := parseField(f)
			if err != nil {
				return "", nil, 0, err
			}
			items = append(items, item)
		}
		return name, ir.NewUnit(ir.NewID(name), nil, items, nil), 1, nil
	}
	i := start + 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "}" || strings.HasPrefix(line, "}") {
			return name, ir.NewUnit(ir.NewID(name), nil, items, nil), i - start + 1, nil
		}
		if line == "" {
			i++
			continue
		}
		item, err := parseField(line)
		if err != nil {
			return "", nil, 0, err
		}
		items = append(items, item)
		i++
	}
	return "", nil, 0, fmt.Errorf("dfnast: unit %q missing closing '}'", name)
}

// parseField parses one "name: type %attr=value ...;" field line.
func parseField(line string) (*ir.UnitItem, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")
	colon := strings.Index(line, ":")
	if colon < 0 {
		return nil, fmt.Errorf("dfnast: field line missing ':': %q", line)
	}
	name := strings.TrimSpace(line[:colon])
	rest := strings.Fields(line[colon+1:])
	if len(rest) == 0 {
		return nil, fmt.Errorf("dfnast: field %q missing a type", name)
	}

	typ, err := parseTypeName(rest[0])
	if err != nil {
		return nil, err
	}
	field := ir.NewAtomicField(name, typ)

	for _, tok := range rest[1:] {
		if !strings.HasPrefix(tok, "%") {
			return nil, fmt.Errorf("dfnast: field %q: unrecognized token %q", name, tok)
		}
		eq := strings.Index(tok, "=")
		if eq < 0 {
			return nil, fmt.Errorf("dfnast: field %q: attribute %q missing '='", name, tok)
		}
		key := tok[1:eq]
		value := tok[eq+1:]
		switch key {
		case ir.AttrLength:
			WithLengthExpr(field, parseLengthExpr(value))
		case ir.AttrByteOrder:
			WithByteOrder(field, value)
		default:
			return nil, fmt.Errorf("dfnast: field %q: unsupported attribute %%%s", name, key)
		}
	}
	return field, nil
}

// parseLengthExpr parses a "-"-joined sequence of identifiers/integers
// into a length expression, e.g. "total_len-key_len-extras_len" becomes
// ((total_len - key_len) - extras_len), matching S2's value-field length.
func parseLengthExpr(s string) *ir.Expr {
	parts := strings.Split(s, "-")
	expr := operandExpr(parts[0])
	for _, p := range parts[1:] {
		expr = Sub(expr, operandExpr(p))
	}
	return expr
}

func operandExpr(tok string) *ir.Expr {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return ir.NewConstantExpr(Uint32(), ir.Value{Int: n})
	}
	return Ref(tok)
}

func parseTypeName(tok string) (*ir.Type, error) {
	switch tok {
	case "uint8":
		return Uint8(), nil
	case "uint16":
		return Uint16(), nil
	case "uint32":
		return Uint32(), nil
	case "uint64":
		return Uint64(), nil
	case "int8":
		return Int8(), nil
	case "int16":
		return Int16(), nil
	case "int32":
		return Int32(), nil
	case "int64":
		return Int64(), nil
	case "bool":
		return Bool(), nil
	case "bytes":
		return Bytes(), nil
	case "string":
		return String(), nil
	default:
		return nil, fmt.Errorf("dfnast: unsupported field type %q", tok)
	}
}

// parseInstantiate parses "instantiate <id> = <Unit>(<field>, <field>);".
func parseInstantiate(line string) (instStmt, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")
	line = strings.TrimPrefix(line, "instantiate ")
	eq := strings.Index(line, "=")
	if eq < 0 {
		return instStmt{}, fmt.Errorf("dfnast: instantiate statement missing '=': %q", line)
	}
	id := strings.TrimSpace(line[:eq])
	rest := strings.TrimSpace(line[eq+1:])

	open := strings.Index(rest, "(")
	closeIdx := strings.LastIndex(rest, ")")
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return instStmt{}, fmt.Errorf("dfnast: instantiate statement missing field list: %q", line)
	}
	unitName := strings.TrimSpace(rest[:open])
	fieldList := strings.TrimSpace(rest[open+1 : closeIdx])

	var fields []string
	if fieldList != "" {
		for _, f := range strings.Split(fieldList, ",") {
			fields = append(fields, strings.TrimSpace(f))
		}
	}
	return instStmt{id: id, unitName: unitName, fields: fields}, nil
}
