package serializers

import (
	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

// String serializes strings with an unsigned varint length prefix followed by
// the raw bytes. Records are variable-length.
type String struct{}

// NewString creates a string serializer.
func NewString() serde.Serializer[string] {
	return String{}
}

func (String) CreateInstance() string {
	return ""
}

func (String) Copy(v string) string {
	return v
}

func (String) CopyInto(v string, _ string) string {
	return v
}

func (String) CopyBytes(src *channel.Reader, dst *channel.Writer) error {
	n, err := src.ReadUvarint()
	if err != nil {
		return err
	}
	if err := dst.WriteUvarint(n); err != nil {
		return err
	}
	return dst.WriteFrom(src, int(n))
}

func (String) Serialize(v string, out *channel.Writer) error {
	return out.WriteString(v)
}

func (String) Deserialize(in *channel.Reader) (string, error) {
	return in.ReadString()
}

func (s String) DeserializeInto(_ string, in *channel.Reader) (string, error) {
	return s.Deserialize(in)
}

func (String) Length() int {
	return serde.VariableLength
}

func (s String) Duplicate() serde.Serializer[string] {
	return s
}

func (String) Snapshot() serde.Snapshot[string] {
	return &simpleSnapshot[string]{
		name:    "string",
		version: 1,
		restore: NewString,
		matches: func(current serde.Serializer[string]) bool {
			_, ok := current.(String)
			return ok
		},
	}
}

func (String) Equal(other serde.Serializer[string]) bool {
	_, ok := other.(String)
	return ok
}
