// Package diag accumulates compile-time errors across a pass instead of
// failing on the first one, matching the teacher's practice of collecting
// per-file results before deciding success (analyzer.go's file loop) and
// §7's propagation policy: a pass returns failure if its error counter is
// non-zero, and the driver stops before the next pass.
package diag

import (
	"fmt"
	"strings"

	"github.com/viant/diffingo/ir"
)

// Severity classifies a diagnostic. Only Error causes a pass to fail;
// Warning entries correspond to §7 kinds 5 and 6 (missing byteorder,
// unrecognised attribute key) and never abort compilation.
type Severity int

const (
	Error Severity = iota
	Warning
)

// Entry is one diagnostic, optionally located.
type Entry struct {
	Severity Severity
	Pass     string
	Message  string
	Loc      ir.Location
}

func (e Entry) String() string {
	sev := "error"
	if e.Severity == Warning {
		sev = "warning"
	}
	if e.Loc.IsNone() {
		return fmt.Sprintf("%s: [%s] %s", sev, e.Pass, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s: %s", sev, e.Pass, e.Loc, e.Message)
}

// List accumulates diagnostics for one pass invocation.
type List struct {
	Entries []Entry
}

// New returns an empty list.
func New() *List { return &List{} }

// Errorf records an Error-severity diagnostic.
func (l *List) Errorf(pass string, loc ir.Location, format string, args ...any) {
	l.Entries = append(l.Entries, Entry{Severity: Error, Pass: pass, Message: fmt.Sprintf(format, args...), Loc: loc})
}

// Warnf records a Warning-severity diagnostic.
func (l *List) Warnf(pass string, loc ir.Location, format string, args ...any) {
	l.Entries = append(l.Entries, Entry{Severity: Warning, Pass: pass, Message: fmt.Sprintf(format, args...), Loc: loc})
}

// HasErrors reports whether any Error-severity diagnostic was recorded. A nil
// list has none.
func (l *List) HasErrors() bool {
	if l == nil {
		return false
	}
	for _, e := range l.Entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the Error-severity entries.
func (l *List) Errors() []Entry {
	var out []Entry
	if l == nil {
		return out
	}
	for _, e := range l.Entries {
		if e.Severity == Error {
			out = append(out, e)
		}
	}
	return out
}

// Append merges another list's entries into this one.
func (l *List) Append(other *List) {
	if other == nil {
		return
	}
	l.Entries = append(l.Entries, other.Entries...)
}

// Error implements the error interface, returning nil-equivalent text ("")
// when there are no Error-severity entries so callers can still use
// fmt.Errorf("%w", list) style wrapping; Err() is the usual accessor.
func (l *List) Error() string {
	var parts []string
	for _, e := range l.Errors() {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "\n")
}

// Err returns l as an error if it has any Error-severity entries, else nil --
// the idiomatic way to fold a List into a normal Go error return.
func (l *List) Err() error {
	if l == nil || !l.HasErrors() {
		return nil
	}
	return l
}
