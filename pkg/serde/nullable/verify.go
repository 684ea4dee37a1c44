package nullable

import (
	"fmt"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

// VerifySupport checks that s can be wrapped for nullable values without
// violating the serializer contract. It exercises both the padded and the
// unpadded wrapper against a nil value: serialization round-trip, copy, raw
// byte copy, and the length relation between inner and wrapper.
func VerifySupport[T any](s serde.Serializer[T]) error {
	padded := Wrap(s, true)
	if s.Length() > 0 {
		if got, want := padded.Length(), s.Length()+1; got != want {
			return fmt.Errorf("padded wrapper of fixed-length serializer reports length %d, want %d", got, want)
		}
	} else if padded.Length() != serde.VariableLength {
		return fmt.Errorf("padded wrapper of variable-length serializer reports length %d, want %d",
			padded.Length(), serde.VariableLength)
	}

	plain := Wrap(s, false)
	if plain.Length() != serde.VariableLength {
		return fmt.Errorf("unpadded wrapper reports length %d, want %d", plain.Length(), serde.VariableLength)
	}

	if err := verifyNilHandling(padded, "padded"); err != nil {
		return err
	}
	return verifyNilHandling(plain, "unpadded")
}

func verifyNilHandling[T any](w serde.Serializer[*T], kind string) error {
	out := channel.NewWriter(0)
	if err := w.Serialize(nil, out); err != nil {
		return fmt.Errorf("%s wrapper failed to serialize nil: %w", kind, err)
	}
	if fixed := w.Length(); fixed > 0 && out.Len() != fixed {
		return fmt.Errorf("%s wrapper wrote %d bytes for nil, want fixed length %d", kind, out.Len(), fixed)
	}

	in := out.Freeze()
	got, err := w.Deserialize(in)
	if err != nil {
		return fmt.Errorf("%s wrapper failed to deserialize nil: %w", kind, err)
	}
	if got != nil {
		return fmt.Errorf("%s wrapper deserialized nil into non-nil value %v", kind, got)
	}
	if in.Available() != 0 {
		return fmt.Errorf("%s wrapper left %d trailing bytes after deserializing nil", kind, in.Available())
	}

	if copied := w.Copy(nil); copied != nil {
		return fmt.Errorf("%s wrapper copied nil into non-nil value %v", kind, copied)
	}
	if copied := w.CopyInto(nil, nil); copied != nil {
		return fmt.Errorf("%s wrapper copied nil into non-nil value %v", kind, copied)
	}

	// Raw byte copy of a nil record must stay byte-identical.
	src := out.Freeze()
	target := channel.NewWriter(0)
	if err := w.CopyBytes(src, target); err != nil {
		return fmt.Errorf("%s wrapper failed to raw-copy a nil record: %w", kind, err)
	}
	if src.Available() != 0 {
		return fmt.Errorf("%s wrapper left %d bytes unconsumed while raw-copying a nil record", kind, src.Available())
	}
	verify := target.Freeze()
	got, err = w.Deserialize(verify)
	if err != nil {
		return fmt.Errorf("%s wrapper failed to deserialize a raw-copied nil record: %w", kind, err)
	}
	if got != nil {
		return fmt.Errorf("%s wrapper raw-copied nil into non-nil value %v", kind, got)
	}
	if verify.Available() != 0 {
		return fmt.Errorf("%s wrapper left %d trailing bytes after a raw-copied nil record", kind, verify.Available())
	}
	return nil
}
