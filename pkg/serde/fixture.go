package serde

// Fixture bundles everything the conformance suite needs to exercise one
// serializer implementation: a factory for fresh serializer instances, the
// declared record length, and an ordered set of representative sample values.
//
// The suite never mutates the slice returned by Samples; fixtures should
// still return a fresh slice per call if the backing values are shared.
type Fixture[T any] struct {
	// NewSerializer returns a fresh serializer. Every call must yield an
	// instance equal to (but independent from) previous ones.
	NewSerializer func() Serializer[T]

	// Length is the expected result of Serializer.Length: a positive fixed
	// size or VariableLength. Zero marks a defective fixture.
	Length int

	// Samples returns the ordered, non-empty sample values used by every
	// property check.
	Samples func() []T

	// AllowNilInstance permits CreateInstance to return a nil value, for
	// wrapper serializers that legitimately have no default instance.
	AllowNilInstance bool
}
