package serializers

import (
	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

const int32ByteLength = 4

// Int32 serializes int32 values as four big-endian bytes. It is stateless
// and safe for concurrent use.
type Int32 struct{}

// NewInt32 creates an int32 serializer.
func NewInt32() serde.Serializer[int32] {
	return Int32{}
}

func (Int32) CreateInstance() int32 {
	return 0
}

func (Int32) Copy(v int32) int32 {
	return v
}

func (Int32) CopyInto(v int32, _ int32) int32 {
	return v
}

func (Int32) CopyBytes(src *channel.Reader, dst *channel.Writer) error {
	return dst.WriteFrom(src, int32ByteLength)
}

func (Int32) Serialize(v int32, out *channel.Writer) error {
	return out.WriteUint32(uint32(v))
}

func (Int32) Deserialize(in *channel.Reader) (int32, error) {
	u, err := in.ReadUint32()
	return int32(u), err
}

func (i Int32) DeserializeInto(_ int32, in *channel.Reader) (int32, error) {
	return i.Deserialize(in)
}

func (Int32) Length() int {
	return int32ByteLength
}

func (i Int32) Duplicate() serde.Serializer[int32] {
	return i
}

func (Int32) Snapshot() serde.Snapshot[int32] {
	return &simpleSnapshot[int32]{
		name:    "int32",
		version: 1,
		restore: NewInt32,
		matches: func(current serde.Serializer[int32]) bool {
			_, ok := current.(Int32)
			return ok
		},
	}
}

func (Int32) Equal(other serde.Serializer[int32]) bool {
	_, ok := other.(Int32)
	return ok
}
