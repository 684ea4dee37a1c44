// Package serializers provides reference implementations of the serializer
// contract for common value types. Each one passes the full conformance
// suite; they double as executable documentation for implementing the
// contract.
package serializers

import (
	"fmt"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
)

// simpleSnapshot is the configuration snapshot of serializers whose
// configuration is fully described by a format name and version.
type simpleSnapshot[T any] struct {
	name    string
	version uint16
	restore func() serde.Serializer[T]
	matches func(current serde.Serializer[T]) bool
}

func (s *simpleSnapshot[T]) WriteSnapshot(out *channel.Writer) error {
	if err := out.WriteString(s.name); err != nil {
		return err
	}
	return out.WriteUint16(s.version)
}

func (s *simpleSnapshot[T]) ReadSnapshot(in *channel.Reader) error {
	name, err := in.ReadString()
	if err != nil {
		return err
	}
	if name != s.name {
		return fmt.Errorf("snapshot format mismatch: expected %q, got %q", s.name, name)
	}
	version, err := in.ReadUint16()
	if err != nil {
		return err
	}
	if version != s.version {
		return fmt.Errorf("snapshot version mismatch for %q: expected %d, got %d", s.name, s.version, version)
	}
	return nil
}

func (s *simpleSnapshot[T]) RestoreSerializer() serde.Serializer[T] {
	return s.restore()
}

func (s *simpleSnapshot[T]) ResolveCompatibility(current serde.Serializer[T]) serde.Compatibility[T] {
	if current != nil && s.matches(current) {
		return serde.CompatibleAsIs[T]()
	}
	return serde.Incompatible[T](fmt.Sprintf("current serializer is not a %s serializer", s.name))
}
