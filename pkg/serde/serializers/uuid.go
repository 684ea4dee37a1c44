package serializers

import (
	"github.com/google/uuid"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

const uuidByteLength = 16

// UUID serializes uuid.UUID values as their 16 raw bytes.
type UUID struct{}

// NewUUID creates a UUID serializer.
func NewUUID() serde.Serializer[uuid.UUID] {
	return UUID{}
}

func (UUID) CreateInstance() uuid.UUID {
	return uuid.Nil
}

func (UUID) Copy(v uuid.UUID) uuid.UUID {
	return v
}

func (UUID) CopyInto(v uuid.UUID, _ uuid.UUID) uuid.UUID {
	return v
}

func (UUID) CopyBytes(src *channel.Reader, dst *channel.Writer) error {
	return dst.WriteFrom(src, uuidByteLength)
}

func (UUID) Serialize(v uuid.UUID, out *channel.Writer) error {
	_, err := out.Write(v[:])
	return err
}

func (UUID) Deserialize(in *channel.Reader) (uuid.UUID, error) {
	var v uuid.UUID
	_, err := in.Read(v[:])
	return v, err
}

func (u UUID) DeserializeInto(_ uuid.UUID, in *channel.Reader) (uuid.UUID, error) {
	return u.Deserialize(in)
}

func (UUID) Length() int {
	return uuidByteLength
}

func (u UUID) Duplicate() serde.Serializer[uuid.UUID] {
	return u
}

func (UUID) Snapshot() serde.Snapshot[uuid.UUID] {
	return &simpleSnapshot[uuid.UUID]{
		name:    "uuid",
		version: 1,
		restore: NewUUID,
		matches: func(current serde.Serializer[uuid.UUID]) bool {
			_, ok := current.(UUID)
			return ok
		},
	}
}

func (UUID) Equal(other serde.Serializer[uuid.UUID]) bool {
	_, ok := other.(UUID)
	return ok
}
