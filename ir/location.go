package ir

// Location is an optional source location used only for diagnostics. The
// zero value is the distinguished "None" location (§3).
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	set       bool
}

// NewLocation builds a present Location.
func NewLocation(file string, startLine, startCol, endLine, endCol int) Location {
	return Location{File: file, StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol, set: true}
}

// IsNone reports whether the location is absent.
func (l Location) IsNone() bool { return !l.set }

func (l Location) String() string {
	if l.IsNone() {
		return "<none>"
	}
	return l.File
}
