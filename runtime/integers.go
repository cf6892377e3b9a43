package runtime

import "encoding/binary"

// This file is generated code's only source of integer codecs (§4.8's
// parseInt<w>_<signed>_<byteorder> family and its serializer counterpart).
// Each parser takes the remaining unread input and reports OutOfData
// rather than panicking when it is short; each serializer takes the
// remaining unwritten output and reports OutBufFull the same way.

// ParseUint8 reads one byte. Byte order is irrelevant at width 8.
func ParseUint8(in []byte) (uint8, int, ParseResult) {
	if len(in) < 1 {
		return 0, 0, OutOfData
	}
	return in[0], 1, Done
}

// ParseInt8 reads one signed byte.
func ParseInt8(in []byte) (int8, int, ParseResult) {
	v, n, r := ParseUint8(in)
	return int8(v), n, r
}

// ParseUint16 reads a 16-bit unsigned integer in the given byte order.
func ParseUint16(in []byte, order ByteOrder) (uint16, int, ParseResult) {
	if len(in) < 2 {
		return 0, 0, OutOfData
	}
	if order == LittleEndian {
		return binary.LittleEndian.Uint16(in), 2, Done
	}
	return binary.BigEndian.Uint16(in), 2, Done
}

// ParseInt16 reads a 16-bit signed integer in the given byte order.
func ParseInt16(in []byte, order ByteOrder) (int16, int, ParseResult) {
	v, n, r := ParseUint16(in, order)
	return int16(v), n, r
}

// ParseUint32 reads a 32-bit unsigned integer in the given byte order.
func ParseUint32(in []byte, order ByteOrder) (uint32, int, ParseResult) {
	if len(in) < 4 {
		return 0, 0, OutOfData
	}
	if order == LittleEndian {
		return binary.LittleEndian.Uint32(in), 4, Done
	}
	return binary.BigEndian.Uint32(in), 4, Done
}

// ParseInt32 reads a 32-bit signed integer in the given byte order.
func ParseInt32(in []byte, order ByteOrder) (int32, int, ParseResult) {
	v, n, r := ParseUint32(in, order)
	return int32(v), n, r
}

// ParseUint64 reads a 64-bit unsigned integer in the given byte order.
func ParseUint64(in []byte, order ByteOrder) (uint64, int, ParseResult) {
	if len(in) < 8 {
		return 0, 0, OutOfData
	}
	if order == LittleEndian {
		return binary.LittleEndian.Uint64(in), 8, Done
	}
	return binary.BigEndian.Uint64(in), 8, Done
}

// ParseInt64 reads a 64-bit signed integer in the given byte order.
func ParseInt64(in []byte, order ByteOrder) (int64, int, ParseResult) {
	v, n, r := ParseUint64(in, order)
	return int64(v), n, r
}

// SerializeUint8 writes one byte.
func SerializeUint8(out []byte, v uint8) (int, SerializeResult) {
	if len(out) < 1 {
		return 0, OutBufFull
	}
	out[0] = v
	return 1, SerializeDone
}

// SerializeInt8 writes one signed byte.
func SerializeInt8(out []byte, v int8) (int, SerializeResult) {
	return SerializeUint8(out, uint8(v))
}

// SerializeUint16 writes a 16-bit unsigned integer in the given byte order.
func SerializeUint16(out []byte, v uint16, order ByteOrder) (int, SerializeResult) {
	if len(out) < 2 {
		return 0, OutBufFull
	}
	if order == LittleEndian {
		binary.LittleEndian.PutUint16(out, v)
	} else {
		binary.BigEndian.PutUint16(out, v)
	}
	return 2, SerializeDone
}

// SerializeInt16 writes a 16-bit signed integer in the given byte order.
func SerializeInt16(out []byte, v int16, order ByteOrder) (int, SerializeResult) {
	return SerializeUint16(out, uint16(v), order)
}

// SerializeUint32 writes a 32-bit unsigned integer in the given byte order.
func SerializeUint32(out []byte, v uint32, order ByteOrder) (int, SerializeResult) {
	if len(out) < 4 {
		return 0, OutBufFull
	}
	if order == LittleEndian {
		binary.LittleEndian.PutUint32(out, v)
	} else {
		binary.BigEndian.PutUint32(out, v)
	}
	return 4, SerializeDone
}

// SerializeInt32 writes a 32-bit signed integer in the given byte order.
func SerializeInt32(out []byte, v int32, order ByteOrder) (int, SerializeResult) {
	return SerializeUint32(out, uint32(v), order)
}

// SerializeUint64 writes a 64-bit unsigned integer in the given byte order.
func SerializeUint64(out []byte, v uint64, order ByteOrder) (int, SerializeResult) {
	if len(out) < 8 {
		return 0, OutBufFull
	}
	if order == LittleEndian {
		binary.LittleEndian.PutUint64(out, v)
	} else {
		binary.BigEndian.PutUint64(out, v)
	}
	return 8, SerializeDone
}

// SerializeInt64 writes a 64-bit signed integer in the given byte order.
func SerializeInt64(out []byte, v int64, order ByteOrder) (int, SerializeResult) {
	return SerializeUint64(out, uint64(v), order)
}
