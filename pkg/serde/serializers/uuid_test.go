package serializers_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/conformance"
	"github.com/Sokol111/serde-conformance/pkg/serde/serializers"
)

func TestUUIDConformance(t *testing.T) {
	fixture := serde.Fixture[uuid.UUID]{
		NewSerializer: serializers.NewUUID,
		Length:        16,
		Samples: func() []uuid.UUID {
			return []uuid.UUID{
				uuid.Nil,
				uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
				uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"),
				uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			}
		},
	}

	conformance.New(fixture).RunAll(t)
}
