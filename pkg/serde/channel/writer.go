package channel

import (
	"encoding/binary"
	"fmt"
)

const defaultCapacity = 64

// Writer is the output side of the in-memory byte channel: an append-only,
// growable buffer that accumulates serialized bytes in call order.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty writer with the given initial capacity.
// A non-positive capacity falls back to a small default.
func NewWriter(capacity int) *Writer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Write appends p to the buffer. It never fails; the buffer grows as needed.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteBool appends a bool encoded as one byte.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteByte(1)
	}
	return w.WriteByte(0)
}

// WriteUint16 appends v in big-endian order.
func (w *Writer) WriteUint16(v uint16) error {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
	return nil
}

// WriteUint32 appends v in big-endian order.
func (w *Writer) WriteUint32(v uint32) error {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
	return nil
}

// WriteUint64 appends v in big-endian order.
func (w *Writer) WriteUint64(v uint64) error {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
	return nil
}

// WriteUvarint appends v as an unsigned varint.
func (w *Writer) WriteUvarint(v uint64) error {
	w.buf = binary.AppendUvarint(w.buf, v)
	return nil
}

// WriteString appends s with an unsigned varint length prefix.
func (w *Writer) WriteString(s string) error {
	w.buf = binary.AppendUvarint(w.buf, uint64(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) error {
	if n < 0 {
		return fmt.Errorf("negative zero-byte count %d", n)
	}
	w.buf = append(w.buf, make([]byte, n)...)
	return nil
}

// WriteFrom copies n raw bytes from r into the buffer without interpreting
// them.
func (w *Writer) WriteFrom(r *Reader, n int) error {
	chunk, err := r.next(n)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, chunk...)
	return nil
}

// Len returns the total number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated bytes. The slice shares the writer's backing
// array and is only valid until the next Write or Reset; use Freeze for an
// independent view.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reset discards all accumulated bytes, keeping the allocated capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Freeze copies the accumulated bytes into a new sequential Reader.
// Subsequent writes do not affect readers frozen earlier.
func (w *Writer) Freeze() *Reader {
	frozen := make([]byte, len(w.buf))
	copy(frozen, w.buf)
	return NewReader(frozen)
}
