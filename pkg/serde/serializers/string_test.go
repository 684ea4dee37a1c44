package serializers_test

import (
	"strings"
	"testing"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/conformance"
	"github.com/Sokol111/serde-conformance/pkg/serde/serializers"
)

func TestStringConformance(t *testing.T) {
	fixture := serde.Fixture[string]{
		NewSerializer: serializers.NewString,
		Length:        serde.VariableLength,
		Samples: func() []string {
			return []string{
				"",
				"a",
				"hello world",
				"привет мир",
				strings.Repeat("x", 1024),
			}
		},
	}

	conformance.New(fixture).RunAll(t)
}
