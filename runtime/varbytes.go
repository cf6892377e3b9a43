package runtime

// StreamRange is a borrowed slice of the input buffer, expressed as
// offsets rather than a raw pointer so it stays valid Go: {start, len}
// from §6's "var_stream_range {start: *u8, len: size_t}". It is only
// meaningful together with the input buffer it was cut from.
type StreamRange struct {
	Start int
	Len   int
}

// Slice resolves the range against the buffer it was taken from.
func (r StreamRange) Slice(source []byte) []byte {
	return source[r.Start : r.Start+r.Len]
}

// VarBytes is the wire-level var_bytes value (§6): either an owned copy
// allocated out of a UnitArea, or a StreamRange borrowed from the input
// buffer. The generated parser always builds the owned shape, whatever the
// --input_pointers flag says; the borrowed shape is built only by direct
// callers of BorrowedVarBytes.
type VarBytes struct {
	owned    []byte
	borrowed StreamRange
	isRange  bool
}

// OwnedVarBytes wraps an area-allocated, already-populated copy.
func OwnedVarBytes(b []byte) VarBytes {
	return VarBytes{owned: b}
}

// BorrowedVarBytes wraps a range into the input buffer; source must be the
// same buffer supplied to the owning parse call.
func BorrowedVarBytes(r StreamRange) VarBytes {
	return VarBytes{borrowed: r, isRange: true}
}

// Bytes returns the underlying bytes, resolving a borrowed range against
// source if necessary. source is ignored for an owned value.
func (v VarBytes) Bytes(source []byte) []byte {
	if v.isRange {
		return v.borrowed.Slice(source)
	}
	return v.owned
}

// Len reports the value's length without needing the source buffer.
func (v VarBytes) Len() int {
	if v.isRange {
		return v.borrowed.Len
	}
	return len(v.owned)
}

// VarString is the wire-level var_string value: the same dual shape as
// VarBytes, distinguished only so generated code can expose a string
// accessor without a byte/string type mismatch at call sites.
type VarString struct {
	inner VarBytes
}

// OwnedVarString wraps an area-allocated, already-populated copy.
func OwnedVarString(b []byte) VarString {
	return VarString{inner: OwnedVarBytes(b)}
}

// BorrowedVarString wraps a range into the input buffer.
func BorrowedVarString(r StreamRange) VarString {
	return VarString{inner: BorrowedVarBytes(r)}
}

// String resolves the value against source, copying into a Go string.
func (v VarString) String(source []byte) string {
	return string(v.inner.Bytes(source))
}

// Len reports the value's length without needing the source buffer.
func (v VarString) Len() int { return v.inner.Len() }
