package nullable

import (
	"fmt"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

const (
	nilMarker     byte = 0
	presentMarker byte = 1
)

// Wrap adapts a serializer of T into a serializer of *T that handles nil
// values. Each record starts with a presence byte followed by the inner
// encoding.
//
// When padToFixedLength is set and the inner serializer is fixed-length, nil
// records are padded with zero bytes so every record keeps the same size and
// the wrapper stays fixed-length (inner length plus the presence byte).
// Without padding the wrapper is variable-length. Padding is ignored for
// variable-length inner serializers.
func Wrap[T any](inner serde.Serializer[T], padToFixedLength bool) serde.Serializer[*T] {
	padLen := 0
	if padToFixedLength && inner.Length() > 0 {
		padLen = inner.Length()
	}
	return &wrapper[T]{inner: inner, padLen: padLen}
}

type wrapper[T any] struct {
	inner  serde.Serializer[T]
	padLen int
}

// CreateInstance returns nil: the wrapper has no meaningful default instance.
func (w *wrapper[T]) CreateInstance() *T {
	return nil
}

func (w *wrapper[T]) Copy(v *T) *T {
	if v == nil {
		return nil
	}
	copied := w.inner.Copy(*v)
	return &copied
}

func (w *wrapper[T]) CopyInto(v *T, reuse *T) *T {
	if v == nil {
		return nil
	}
	if reuse == nil {
		return w.Copy(v)
	}
	*reuse = w.inner.CopyInto(*v, *reuse)
	return reuse
}

func (w *wrapper[T]) CopyBytes(src *channel.Reader, dst *channel.Writer) error {
	marker, err := src.ReadByte()
	if err != nil {
		return err
	}
	if err := dst.WriteByte(marker); err != nil {
		return err
	}
	if marker == nilMarker {
		if w.padLen > 0 {
			return dst.WriteFrom(src, w.padLen)
		}
		return nil
	}
	return w.inner.CopyBytes(src, dst)
}

func (w *wrapper[T]) Serialize(v *T, out *channel.Writer) error {
	if v == nil {
		if err := out.WriteByte(nilMarker); err != nil {
			return err
		}
		return out.WriteZeros(w.padLen)
	}
	if err := out.WriteByte(presentMarker); err != nil {
		return err
	}
	return w.inner.Serialize(*v, out)
}

func (w *wrapper[T]) Deserialize(in *channel.Reader) (*T, error) {
	marker, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	if marker == nilMarker {
		return nil, in.Skip(w.padLen)
	}
	v, err := w.inner.Deserialize(in)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (w *wrapper[T]) DeserializeInto(reuse *T, in *channel.Reader) (*T, error) {
	marker, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	if marker == nilMarker {
		return nil, in.Skip(w.padLen)
	}
	if reuse == nil {
		v, err := w.inner.Deserialize(in)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	v, err := w.inner.DeserializeInto(*reuse, in)
	if err != nil {
		return nil, err
	}
	*reuse = v
	return reuse, nil
}

func (w *wrapper[T]) Length() int {
	if w.padLen > 0 {
		return w.padLen + 1
	}
	return serde.VariableLength
}

func (w *wrapper[T]) Duplicate() serde.Serializer[*T] {
	return &wrapper[T]{inner: w.inner.Duplicate(), padLen: w.padLen}
}

func (w *wrapper[T]) Snapshot() serde.Snapshot[*T] {
	return &snapshot[T]{inner: w.inner.Snapshot(), padded: w.padLen > 0}
}

func (w *wrapper[T]) Equal(other serde.Serializer[*T]) bool {
	o, ok := other.(*wrapper[T])
	return ok && o.padLen == w.padLen && w.inner.Equal(o.inner)
}

type snapshot[T any] struct {
	inner  serde.Snapshot[T]
	padded bool
}

func (s *snapshot[T]) WriteSnapshot(out *channel.Writer) error {
	if err := out.WriteBool(s.padded); err != nil {
		return err
	}
	return s.inner.WriteSnapshot(out)
}

func (s *snapshot[T]) ReadSnapshot(in *channel.Reader) error {
	padded, err := in.ReadBool()
	if err != nil {
		return err
	}
	s.padded = padded
	return s.inner.ReadSnapshot(in)
}

func (s *snapshot[T]) RestoreSerializer() serde.Serializer[*T] {
	restored := s.inner.RestoreSerializer()
	if restored == nil {
		return nil
	}
	return Wrap(restored, s.padded)
}

func (s *snapshot[T]) ResolveCompatibility(current serde.Serializer[*T]) serde.Compatibility[*T] {
	cur, ok := current.(*wrapper[T])
	if !ok {
		return serde.Incompatible[*T]("current serializer is not a nullable wrapper")
	}
	if s.padded != (cur.padLen > 0) {
		return serde.Incompatible[*T](fmt.Sprintf(
			"padding mismatch: snapshot padded=%t, current padded=%t", s.padded, cur.padLen > 0))
	}
	outcome := s.inner.ResolveCompatibility(cur.inner)
	switch {
	case outcome.IsCompatibleAsIs():
		return serde.CompatibleAsIs[*T]()
	case outcome.IsCompatibleAfterReconfiguration():
		return serde.CompatibleAfterReconfiguration(Wrap(outcome.ReconfiguredSerializer(), s.padded))
	default:
		return serde.Incompatible[*T](outcome.String())
	}
}
