package channel

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterAccumulatesInCallOrder(t *testing.T) {
	w := NewWriter(0)

	_, err := w.Write([]byte{1, 2})
	require.NoError(t, err)
	require.NoError(t, w.WriteByte(3))
	require.NoError(t, w.WriteUint16(0x0405))

	assert.Equal(t, 5, w.Len())
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, w.Bytes())
}

func TestWriterPrimitivesRoundTrip(t *testing.T) {
	w := NewWriter(16)
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteUint32(0xDEADBEEF))
	require.NoError(t, w.WriteUint64(1<<40))
	require.NoError(t, w.WriteUvarint(300))
	require.NoError(t, w.WriteString("héllo"))

	r := w.Freeze()

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	uv, err := r.ReadUvarint()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), uv)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	assert.Zero(t, r.Available())
}

func TestFreezeIsIndependentOfLaterWrites(t *testing.T) {
	w := NewWriter(0)
	require.NoError(t, w.WriteByte(1))

	frozen := w.Freeze()
	require.NoError(t, w.WriteByte(2))
	w.Reset()
	require.NoError(t, w.WriteByte(9))

	assert.Equal(t, 1, frozen.Available())
	b, err := frozen.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(1), b)
}

func TestReaderExhaustion(t *testing.T) {
	t.Run("empty read returns EOF", func(t *testing.T) {
		r := NewReader(nil)
		_, err := r.ReadByte()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("partial read returns ErrUnexpectedEOF", func(t *testing.T) {
		r := NewReader([]byte{1, 2})
		_, err := r.ReadUint32()
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		// A failed read must not consume anything.
		assert.Equal(t, 2, r.Available())
	})

	t.Run("skip past end fails", func(t *testing.T) {
		r := NewReader([]byte{1})
		assert.Error(t, r.Skip(2))
	})
}

func TestWriteFromCopiesRawByteRange(t *testing.T) {
	src := NewWriter(0)
	_, err := src.Write([]byte{10, 20, 30, 40})
	require.NoError(t, err)

	in := src.Freeze()
	dst := NewWriter(0)
	require.NoError(t, dst.WriteFrom(in, 3))

	assert.Equal(t, []byte{10, 20, 30}, dst.Bytes())
	assert.Equal(t, 1, in.Available())

	assert.ErrorIs(t, dst.WriteFrom(in, 2), io.ErrUnexpectedEOF)
}

func TestWriteZeros(t *testing.T) {
	w := NewWriter(0)
	require.NoError(t, w.WriteZeros(3))
	assert.Equal(t, []byte{0, 0, 0}, w.Bytes())
	assert.Error(t, w.WriteZeros(-1))
}

func TestSetBytesRepositionsReader(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, err := r.ReadByte()
	require.NoError(t, err)

	r.SetBytes([]byte{7, 8})
	assert.Equal(t, 2, r.Available())
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(7), b)
}

func TestResetKeepsWriterReusable(t *testing.T) {
	w := NewWriter(4)
	require.NoError(t, w.WriteUint32(42))
	w.Reset()

	assert.Zero(t, w.Len())
	require.NoError(t, w.WriteByte(1))
	assert.Equal(t, []byte{1}, w.Bytes())
}
