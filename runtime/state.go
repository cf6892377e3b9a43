package runtime

// ByteOrder selects how generated integer codecs read/write multi-byte
// values; it mirrors the module's ByteOrder built-in enum (big = 0,
// little = 1) without depending on the ir package, since generated code
// only needs the runtime value, not the compiler's AST.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// BlockState is one frame of the resumable parser/serializer's unit
// stack (§4.8): the unit currently being built and the instruction
// pointer marking where its goto-threaded code should resume. Unit is
// `any` because each generated unit type is distinct; callers type-assert
// it back to their own pointer type.
type BlockState struct {
	PC   int
	Unit any
}

// ParserState is the caller-owned, generated-code-exclusive state a
// resumable parse/serialize call mutates (§5): a typed stack of
// BlockState frames, one per nested unit currently in progress.
//
// On entry, generated code checks whether the state already has a frame:
// if so, it jumps to that frame's PC; otherwise it pushes a fresh frame
// and starts at the top. Every OUT_OF_DATA / OUT_BUF_FULL return leaves
// the stack exactly as the caller must see it to resume.
type ParserState struct {
	stack []BlockState
}

// Push starts a new unit frame at PC 0.
func (s *ParserState) Push(unit any) {
	s.stack = append(s.stack, BlockState{Unit: unit})
}

// Pop discards the top frame, returning it. Called when a nested unit
// finishes (SerializeNext / the parser equivalent) and control returns to
// the parent frame.
func (s *ParserState) Pop() (BlockState, bool) {
	if len(s.stack) == 0 {
		return BlockState{}, false
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top, true
}

// Top returns a pointer to the current frame so generated code can read
// or update its PC and Unit in place, or false if the stack is empty.
func (s *ParserState) Top() (*BlockState, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	return &s.stack[len(s.stack)-1], true
}

// Depth reports how many nested units are in progress.
func (s *ParserState) Depth() int { return len(s.stack) }

// Reset clears the stack, e.g. between unrelated top-level parses sharing
// one ParserState value.
func (s *ParserState) Reset() { s.stack = s.stack[:0] }
