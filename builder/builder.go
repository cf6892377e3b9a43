// Package builder is the source-code builder (C2): a small generative
// model of a Go file -- package, imports, structs, constants, and
// functions/methods -- plus a Printer that renders it to source text. The
// codegen packages (parser, serializer) populate this model instead
// of concatenating strings directly, the way compact and depanalysis
// build new ir.Type/ir.Declaration values instead of mutating text.
//
// Grounded on the teacher's inspector/graph file/type/field model (File,
// Type, Field, Function, Import) and inspector/golang/emitter.go's
// Emitter, generalized from "replay the original source's raw text" to
// "render a freshly constructed model", since diffingo emits code that
// never existed in any input file.
package builder

import "fmt"

// Import is one line of a file's import block.
type Import struct {
	Alias string // local name, empty to use the package's default name
	Path  string
}

// Field is a struct field (a "member variable" in the teacher's
// terminology).
type Field struct {
	Name string
	Type string
	Tag  string
	Doc  string
}

// Struct is a generated type declaration.
type Struct struct {
	Name   string
	Doc    string
	Fields []Field
}

// AddMemberVariable appends a field and returns the struct for chaining.
// Named after libkode's Class::addMemberVariable, the direct ancestor of
// this model's shape.
func (s *Struct) AddMemberVariable(name, typ string) *Struct {
	s.Fields = append(s.Fields, Field{Name: name, Type: typ})
	return s
}

// Param is a function parameter or result.
type Param struct {
	Name string
	Type string
}

// Func is a generated function or method.
type Func struct {
	Receiver string // e.g. "u *Header"; empty for a plain function
	Name     string
	Doc      string
	Params   []Param
	Results  []Param
	Body     []string // statements, emitted verbatim one per line
}

// AddStmt appends a body statement and returns the function for chaining.
func (f *Func) AddStmt(stmt string, args ...any) *Func {
	if len(args) > 0 {
		stmt = fmt.Sprintf(stmt, args...)
	}
	f.Body = append(f.Body, stmt)
	return f
}

// Const is a single constant declaration (used for enum labels and other
// generated constants).
type Const struct {
	Name  string
	Type  string
	Value string
	Doc   string
}

// File is a complete generated Go source file.
//
// Structs and Funcs hold pointers, not values: AddStruct/AddFunction hand
// callers a pointer into the slice to keep configuring, and a value slice
// would invalidate that pointer the moment a later Add reallocates the
// backing array.
type File struct {
	Package string
	Doc     string
	Imports []Import
	Consts  []Const
	Structs []*Struct
	Funcs   []*Func
}

// NewFile starts a file in the given package.
func NewFile(pkg string) *File {
	return &File{Package: pkg}
}

// AddImport appends an import, skipping duplicates by path.
func (f *File) AddImport(path string) *File {
	for _, imp := range f.Imports {
		if imp.Path == path {
			return f
		}
	}
	f.Imports = append(f.Imports, Import{Path: path})
	return f
}

// AddStruct appends a struct and returns it for further configuration.
func (f *File) AddStruct(name string) *Struct {
	s := &Struct{Name: name}
	f.Structs = append(f.Structs, s)
	return s
}

// AddFunction appends a function and returns it for further configuration.
// Named after libkode's Class::addFunction.
func (f *File) AddFunction(name string) *Func {
	fn := &Func{Name: name}
	f.Funcs = append(f.Funcs, fn)
	return fn
}
