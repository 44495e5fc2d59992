// Package borsh implements the serialization half of the Borsh binary
// format (https://borsh.io) used by nearcore for transaction encoding.
// Only the write path is provided: the client never deserializes Borsh,
// it only produces bytes the chain must accept byte-for-byte.
package borsh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Writer accumulates a Borsh-encoded byte sequence. Errors are sticky:
// once a write fails every later write is a no-op and Err reports the
// first failure. This keeps call sites free of per-field error checks
// while still surfacing length overflows.
type Writer struct {
	buf bytes.Buffer
	err error
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// U8 writes a single byte.
func (w *Writer) U8(v byte) {
	if w.err != nil {
		return
	}
	w.buf.WriteByte(v)
}

// U32 writes a little-endian uint32.
func (w *Writer) U32(v uint32) {
	if w.err != nil {
		return
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// U64 writes a little-endian uint64.
func (w *Writer) U64(v uint64) {
	if w.err != nil {
		return
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// U128 writes a 16-byte little-endian unsigned integer.
func (w *Writer) U128(v [16]byte) {
	if w.err != nil {
		return
	}
	w.buf.Write(v[:])
}

// FixedBytes writes raw bytes without a length prefix. Used for
// fixed-width fields such as 32-byte hashes and key material.
func (w *Writer) FixedBytes(b []byte) {
	if w.err != nil {
		return
	}
	w.buf.Write(b)
}

// VarBytes writes a u32 length prefix followed by the raw bytes.
func (w *Writer) VarBytes(b []byte) {
	if w.err != nil {
		return
	}
	if len(b) > math.MaxUint32 {
		w.err = fmt.Errorf("borsh: byte sequence of %d bytes exceeds u32 length prefix", len(b))
		return
	}
	w.U32(uint32(len(b)))
	w.buf.Write(b)
}

// String writes a u32 length prefix followed by the UTF-8 bytes.
func (w *Writer) String(s string) {
	w.VarBytes([]byte(s))
}

// VecLen writes the u32 element count that precedes a Borsh vector.
// The caller then writes each element in order.
func (w *Writer) VecLen(n int) {
	if w.err != nil {
		return
	}
	if n < 0 || n > math.MaxUint32 {
		w.err = fmt.Errorf("borsh: vector of %d elements exceeds u32 length prefix", n)
		return
	}
	w.U32(uint32(n))
}

// Option writes the presence tag for a Borsh Option. The caller writes
// the payload afterwards when present is true.
func (w *Writer) Option(present bool) {
	if present {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

// Bytes returns the accumulated encoding. The result is only meaningful
// when Err returns nil.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}
