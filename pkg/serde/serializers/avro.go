package serializers

import (
	"fmt"

	hambavro "github.com/hamba/avro/v2"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

// Avro serializes values of a struct type T as an unsigned varint length
// prefix followed by the Avro binary encoding of the value under the writer
// schema. Records are variable-length.
//
// The parsed schema is immutable and shared between duplicates; the
// serializer holds no mutable state.
type Avro[T any] struct {
	schema hambavro.Schema
}

// NewAvro creates an Avro serializer for T from an Avro schema definition in
// JSON format.
func NewAvro[T any](schemaJSON string) (serde.Serializer[T], error) {
	schema, err := hambavro.Parse(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avro schema: %w", err)
	}
	return &Avro[T]{schema: schema}, nil
}

func (a *Avro[T]) CreateInstance() T {
	var zero T
	return zero
}

// Copy deep-copies v through an encode/decode cycle. A value that cannot be
// encoded yields the zero value, which surfaces as an equality failure in the
// caller's check.
func (a *Avro[T]) Copy(v T) T {
	var copied T
	data, err := hambavro.Marshal(a.schema, v)
	if err != nil {
		return copied
	}
	if err := hambavro.Unmarshal(a.schema, data, &copied); err != nil {
		var zero T
		return zero
	}
	return copied
}

// CopyInto never reuses the target: decoding into a previously-used struct
// could leave stale slice or map state behind, so a fresh value is returned
// instead.
func (a *Avro[T]) CopyInto(v T, _ T) T {
	return a.Copy(v)
}

func (a *Avro[T]) CopyBytes(src *channel.Reader, dst *channel.Writer) error {
	n, err := src.ReadUvarint()
	if err != nil {
		return err
	}
	if err := dst.WriteUvarint(n); err != nil {
		return err
	}
	return dst.WriteFrom(src, int(n))
}

func (a *Avro[T]) Serialize(v T, out *channel.Writer) error {
	body, err := hambavro.Marshal(a.schema, v)
	if err != nil {
		return fmt.Errorf("failed to marshal avro data: %w", err)
	}
	if err := out.WriteUvarint(uint64(len(body))); err != nil {
		return err
	}
	_, err = out.Write(body)
	return err
}

func (a *Avro[T]) Deserialize(in *channel.Reader) (T, error) {
	var v T
	n, err := in.ReadUvarint()
	if err != nil {
		return v, err
	}
	body := make([]byte, n)
	if _, err := in.Read(body); err != nil {
		return v, err
	}
	if err := hambavro.Unmarshal(a.schema, body, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal avro data: %w", err)
	}
	return v, nil
}

// DeserializeInto never reuses the target, for the same reason as CopyInto.
func (a *Avro[T]) DeserializeInto(_ T, in *channel.Reader) (T, error) {
	return a.Deserialize(in)
}

func (a *Avro[T]) Length() int {
	return serde.VariableLength
}

func (a *Avro[T]) Duplicate() serde.Serializer[T] {
	return &Avro[T]{schema: a.schema}
}

func (a *Avro[T]) Snapshot() serde.Snapshot[T] {
	return &avroSnapshot[T]{schema: a.schema}
}

func (a *Avro[T]) Equal(other serde.Serializer[T]) bool {
	o, ok := other.(*Avro[T])
	return ok && o.schema.Fingerprint() == a.schema.Fingerprint()
}

// avroSnapshot captures the writer schema of an Avro serializer as its JSON
// definition.
type avroSnapshot[T any] struct {
	schema hambavro.Schema
}

func (s *avroSnapshot[T]) WriteSnapshot(out *channel.Writer) error {
	return out.WriteString(s.schema.String())
}

func (s *avroSnapshot[T]) ReadSnapshot(in *channel.Reader) error {
	schemaJSON, err := in.ReadString()
	if err != nil {
		return err
	}
	schema, err := hambavro.Parse(schemaJSON)
	if err != nil {
		return fmt.Errorf("failed to parse avro schema from snapshot: %w", err)
	}
	s.schema = schema
	return nil
}

func (s *avroSnapshot[T]) RestoreSerializer() serde.Serializer[T] {
	return &Avro[T]{schema: s.schema}
}

// ResolveCompatibility compares the captured writer schema with the current
// serializer's schema: identical schemas are compatible as-is, schemas of the
// same named record require reconfiguration, anything else is incompatible.
func (s *avroSnapshot[T]) ResolveCompatibility(current serde.Serializer[T]) serde.Compatibility[T] {
	cur, ok := current.(*Avro[T])
	if !ok {
		return serde.Incompatible[T]("current serializer is not an avro serializer")
	}
	if cur.schema.Fingerprint() == s.schema.Fingerprint() {
		return serde.CompatibleAsIs[T]()
	}
	snapNamed, snapOK := s.schema.(hambavro.NamedSchema)
	curNamed, curOK := cur.schema.(hambavro.NamedSchema)
	if snapOK && curOK && snapNamed.FullName() == curNamed.FullName() {
		return serde.CompatibleAfterReconfiguration[T](&Avro[T]{schema: cur.schema})
	}
	return serde.Incompatible[T](fmt.Sprintf("schema %q cannot be resolved against the current schema", s.schema.String()))
}
