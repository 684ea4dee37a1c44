package channel

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader is the input side of the in-memory byte channel: a sequential cursor
// over a fixed byte slice. Reading past the end returns io.EOF when no bytes
// remain and io.ErrUnexpectedEOF when only part of a request can be served.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// SetBytes repositions the reader at the start of b, replacing any previous
// buffer. The reader does not copy b.
func (r *Reader) SetBytes(b []byte) {
	r.buf = b
	r.pos = 0
}

// Available returns the number of unread bytes.
func (r *Reader) Available() int {
	return len(r.buf) - r.pos
}

// next consumes n bytes and returns them as a sub-slice of the buffer.
func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative byte count %d", n)
	}
	if avail := r.Available(); avail < n {
		if avail == 0 {
			return nil, io.EOF
		}
		return nil, io.ErrUnexpectedEOF
	}
	chunk := r.buf[r.pos : r.pos+n]
	r.pos += n
	return chunk, nil
}

// Read fills p entirely or fails without consuming anything.
func (r *Reader) Read(p []byte) (int, error) {
	chunk, err := r.next(len(p))
	if err != nil {
		return 0, err
	}
	copy(p, chunk)
	return len(p), nil
}

// ReadByte consumes and returns a single byte.
func (r *Reader) ReadByte() (byte, error) {
	chunk, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return chunk[0], nil
}

// ReadBool consumes one byte and interprets any non-zero value as true.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// ReadUint16 consumes two bytes in big-endian order.
func (r *Reader) ReadUint16() (uint16, error) {
	chunk, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(chunk), nil
}

// ReadUint32 consumes four bytes in big-endian order.
func (r *Reader) ReadUint32() (uint32, error) {
	chunk, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(chunk), nil
}

// ReadUint64 consumes eight bytes in big-endian order.
func (r *Reader) ReadUint64() (uint64, error) {
	chunk, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(chunk), nil
}

// ReadUvarint consumes an unsigned varint.
func (r *Reader) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(r)
}

// ReadString consumes a varint length prefix followed by that many bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return "", err
	}
	chunk, err := r.next(int(n))
	if err != nil {
		return "", err
	}
	return string(chunk), nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.next(n)
	return err
}
