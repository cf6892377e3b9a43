package builder

import (
	"fmt"
	"sort"
	"strings"
)

// Printer renders a File to Go source text. It mirrors the teacher's
// Emitter.Emit shape (one method, a strings.Builder, section-by-section)
// but generates new text from the model instead of replaying Location.Raw.
type Printer struct{}

// Print renders file as a complete, syntactically well-formed Go source
// file. It does not run gofmt -- indentation is emitted directly -- so
// output is valid but not canonically formatted.
func (p *Printer) Print(file *File) ([]byte, error) {
	b := &strings.Builder{}

	if file.Doc != "" {
		writeDoc(b, file.Doc, "")
	}
	fmt.Fprintf(b, "package %s\n\n", file.Package)

	if len(file.Imports) > 0 {
		b.WriteString("import (\n")
		for _, imp := range file.Imports {
			if imp.Alias != "" {
				fmt.Fprintf(b, "\t%s %q\n", imp.Alias, imp.Path)
			} else {
				fmt.Fprintf(b, "\t%q\n", imp.Path)
			}
		}
		b.WriteString(")\n\n")
	}

	if len(file.Consts) > 0 {
		b.WriteString("const (\n")
		for _, c := range file.Consts {
			if c.Doc != "" {
				writeDoc(b, c.Doc, "\t")
			}
			if c.Type != "" {
				fmt.Fprintf(b, "\t%s %s = %s\n", c.Name, c.Type, c.Value)
			} else {
				fmt.Fprintf(b, "\t%s = %s\n", c.Name, c.Value)
			}
		}
		b.WriteString(")\n\n")
	}

	for _, s := range sortedDecls(file.Structs, func(s *Struct) string { return s.Name }) {
		printStruct(b, s)
	}

	for _, f := range sortedDecls(file.Funcs, func(f *Func) string { return f.Name }) {
		printFunc(b, f)
	}

	return []byte(b.String()), nil
}

// sortedDecls returns decls ordered by name, mirroring libkode's printer.cpp
// sorting declarations before emission so output doesn't depend on
// insertion order. libkode's ordering additionally excludes base classes
// whose name starts with "Q" from the dependency scan that feeds the sort
// (Qt base classes are assumed already declared); Go has no base-class
// list to filter, so that exclusion has nothing to apply to here.
func sortedDecls[T any](decls []T, name func(T) string) []T {
	out := make([]T, len(decls))
	copy(out, decls)
	sort.SliceStable(out, func(i, j int) bool { return name(out[i]) < name(out[j]) })
	return out
}

func printStruct(b *strings.Builder, s *Struct) {
	if s.Doc != "" {
		writeDoc(b, s.Doc, "")
	}
	fmt.Fprintf(b, "type %s struct {\n", s.Name)
	for _, f := range s.Fields {
		if f.Doc != "" {
			writeDoc(b, f.Doc, "\t")
		}
		if f.Tag != "" {
			fmt.Fprintf(b, "\t%s %s `%s`\n", f.Name, f.Type, f.Tag)
		} else {
			fmt.Fprintf(b, "\t%s %s\n", f.Name, f.Type)
		}
	}
	b.WriteString("}\n\n")
}

func printFunc(b *strings.Builder, f *Func) {
	if f.Doc != "" {
		writeDoc(b, f.Doc, "")
	}
	b.WriteString("func ")
	if f.Receiver != "" {
		fmt.Fprintf(b, "(%s) ", f.Receiver)
	}
	fmt.Fprintf(b, "%s(%s)", f.Name, joinParams(f.Params))
	if len(f.Results) == 1 && f.Results[0].Name == "" {
		fmt.Fprintf(b, " %s", f.Results[0].Type)
	} else if len(f.Results) > 0 {
		fmt.Fprintf(b, " (%s)", joinParams(f.Results))
	}
	b.WriteString(" {\n")
	for _, stmt := range f.Body {
		fmt.Fprintf(b, "\t%s\n", stmt)
	}
	b.WriteString("}\n\n")
}

func joinParams(params []Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			parts = append(parts, p.Type)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", p.Name, p.Type))
	}
	return strings.Join(parts, ", ")
}

func writeDoc(b *strings.Builder, doc, indent string) {
	for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
		fmt.Fprintf(b, "%s// %s\n", indent, line)
	}
}
