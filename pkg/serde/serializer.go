package serde

import (
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

// VariableLength is the length a serializer reports when its records do not
// have a fixed byte size.
const VariableLength = -1

// Serializer encodes and decodes values of type T to and from a byte channel.
//
// Implementations may be stateful (e.g. hold scratch buffers), in which case
// Duplicate must return an instance that is safe to use concurrently with the
// original. Two serializers with the same configuration must compare equal
// via Equal, and a duplicate must initially compare equal to its source.
type Serializer[T any] interface {
	// CreateInstance returns a new default value of the serialized type.
	// Wrapper serializers that have no meaningful default may return a nil
	// value; fixtures declare whether that is permitted.
	CreateInstance() T

	// Copy returns a deep copy of v.
	Copy(v T) T

	// CopyInto returns a deep copy of v, reusing the given target instance
	// where possible. No byte of the previous occupant's state may leak into
	// the result.
	CopyInto(v T, reuse T) T

	// CopyBytes copies exactly one serialized record from src to dst without
	// materializing a typed value. The copied bytes must be identical to what
	// Serialize would have produced for the same value.
	CopyBytes(src *channel.Reader, dst *channel.Writer) error

	// Serialize appends the encoded form of v to out.
	Serialize(v T, out *channel.Writer) error

	// Deserialize reads one record from in and returns the decoded value.
	Deserialize(in *channel.Reader) (T, error)

	// DeserializeInto reads one record from in, reusing the given target
	// instance where possible.
	DeserializeInto(reuse T, in *channel.Reader) (T, error)

	// Length returns the fixed byte size of a serialized record, or
	// VariableLength for variable-size encodings. Zero is never a legal
	// value.
	Length() int

	// Duplicate returns a serializer that is behaviorally independent from
	// the receiver: the two must not share mutable buffers or other mutable
	// state. Stateless serializers may return themselves.
	Duplicate() Serializer[T]

	// Snapshot captures the serializer's current configuration as a
	// writable, restorable descriptor.
	Snapshot() Snapshot[T]

	// Equal reports whether other has the same configuration as the
	// receiver.
	Equal(other Serializer[T]) bool
}

// Snapshot is a point-in-time descriptor of a serializer's configuration.
//
// A snapshot round-trips through the byte channel: WriteSnapshot on one
// instance followed by ReadSnapshot on an instance of the same kind must
// recover the configuration byte for byte.
type Snapshot[T any] interface {
	// WriteSnapshot appends the snapshot's binary form to out.
	WriteSnapshot(out *channel.Writer) error

	// ReadSnapshot replaces the snapshot's state with the binary form read
	// from in.
	ReadSnapshot(in *channel.Reader) error

	// RestoreSerializer builds a serializer from the captured configuration.
	RestoreSerializer() Serializer[T]

	// ResolveCompatibility resolves this (restored) snapshot against the
	// current serializer and reports one of the three terminal outcomes.
	ResolveCompatibility(current Serializer[T]) Compatibility[T]
}
