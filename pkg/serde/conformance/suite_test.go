package conformance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
	"github.com/Sokol111/serde-conformance/pkg/serde/conformance"
	"github.com/Sokol111/serde-conformance/pkg/serde/equality"
	"github.com/Sokol111/serde-conformance/pkg/serde/nullable"
	"github.com/Sokol111/serde-conformance/pkg/serde/serializers"
)

func int32Fixture() serde.Fixture[int32] {
	return serde.Fixture[int32]{
		NewSerializer: serializers.NewInt32,
		Length:        4,
		Samples: func() []int32 {
			return []int32{5, 6, -7}
		},
	}
}

// --- fixture defects ---------------------------------------------------------

func TestEmptySampleSetIsFixtureDefect(t *testing.T) {
	fixture := int32Fixture()
	fixture.Samples = func() []int32 { return nil }

	err := conformance.New(fixture).CheckCopy()

	assert.ErrorIs(t, err, conformance.ErrFixtureDefect)
}

func TestMissingSampleFuncIsFixtureDefect(t *testing.T) {
	fixture := int32Fixture()
	fixture.Samples = nil

	err := conformance.New(fixture).CheckSerializeAsSequence()

	assert.ErrorIs(t, err, conformance.ErrFixtureDefect)
}

func TestMissingFactoryIsFixtureDefect(t *testing.T) {
	fixture := int32Fixture()
	fixture.NewSerializer = nil

	err := conformance.New(fixture).CheckInstantiate()

	assert.ErrorIs(t, err, conformance.ErrFixtureDefect)
}

func TestNilSerializerIsFixtureDefect(t *testing.T) {
	fixture := int32Fixture()
	fixture.NewSerializer = func() serde.Serializer[int32] { return nil }

	err := conformance.New(fixture).CheckInstantiate()

	assert.ErrorIs(t, err, conformance.ErrFixtureDefect)
}

func TestZeroDeclaredLengthIsFixtureDefect(t *testing.T) {
	fixture := int32Fixture()
	fixture.Length = 0

	err := conformance.New(fixture).CheckLength()

	assert.ErrorIs(t, err, conformance.ErrFixtureDefect)
}

// --- contract violations -----------------------------------------------------

func TestWrongReportedLengthFails(t *testing.T) {
	fixture := int32Fixture()
	fixture.Length = 8

	err := conformance.New(fixture).CheckLength()

	require.ErrorIs(t, err, conformance.ErrContractViolation)
	assert.Contains(t, err.Error(), "reported 4, want 8")
}

// staleCopyInto returns the reuse target without overwriting it, the classic
// broken copy-into implementation.
type staleCopyInto struct {
	serde.Serializer[int32]
}

func (staleCopyInto) CopyInto(_ int32, reuse int32) int32 {
	return reuse
}

func TestStaleCopyIntoIsCaughtByReusedTargetCheck(t *testing.T) {
	fixture := int32Fixture()
	fixture.NewSerializer = func() serde.Serializer[int32] {
		return staleCopyInto{serializers.NewInt32()}
	}

	err := conformance.New(fixture).CheckCopyIntoReused()

	assert.ErrorIs(t, err, conformance.ErrContractViolation)
}

// trailingBytes appends one stray byte after every record.
type trailingBytes struct {
	serde.Serializer[int32]
}

func (s trailingBytes) Serialize(v int32, out *channel.Writer) error {
	if err := s.Serializer.Serialize(v, out); err != nil {
		return err
	}
	return out.WriteByte(0)
}

func TestTrailingBytesAfterDeserializeFail(t *testing.T) {
	fixture := int32Fixture()
	fixture.NewSerializer = func() serde.Serializer[int32] {
		return trailingBytes{serializers.NewInt32()}
	}

	err := conformance.New(fixture).CheckSerializeIndividually()

	require.ErrorIs(t, err, conformance.ErrContractViolation)
	assert.Contains(t, err.Error(), "trailing bytes")
}

// --- clone and snapshot failures ----------------------------------------------

type nilSnapshot struct {
	serde.Serializer[int32]
}

func (nilSnapshot) Snapshot() serde.Snapshot[int32] {
	return nil
}

func TestNilSnapshotIsCloneFailure(t *testing.T) {
	fixture := int32Fixture()
	fixture.NewSerializer = func() serde.Serializer[int32] {
		return nilSnapshot{serializers.NewInt32()}
	}

	err := conformance.New(fixture).CheckSerializabilityAndEquals()

	assert.ErrorIs(t, err, conformance.ErrCloneFailure)
	assert.NotErrorIs(t, err, conformance.ErrContractViolation)
}

// incompatibleSnapshot resolves every compatibility question negatively.
type incompatibleSnapshot struct {
	serde.Serializer[int32]
}

func (incompatibleSnapshot) Snapshot() serde.Snapshot[int32] {
	return alwaysIncompatible{}
}

type alwaysIncompatible struct{}

func (alwaysIncompatible) WriteSnapshot(out *channel.Writer) error {
	return out.WriteByte(1)
}

func (alwaysIncompatible) ReadSnapshot(in *channel.Reader) error {
	_, err := in.ReadByte()
	return err
}

func (alwaysIncompatible) RestoreSerializer() serde.Serializer[int32] {
	return serializers.NewInt32()
}

func (alwaysIncompatible) ResolveCompatibility(serde.Serializer[int32]) serde.Compatibility[int32] {
	return serde.Incompatible[int32]("schema changed")
}

func TestIncompatibleResolutionIsHardFailure(t *testing.T) {
	fixture := int32Fixture()
	fixture.NewSerializer = func() serde.Serializer[int32] {
		return incompatibleSnapshot{serializers.NewInt32()}
	}

	err := conformance.New(fixture).CheckSnapshotRoundTrip()

	require.ErrorIs(t, err, conformance.ErrContractViolation)
	assert.Contains(t, err.Error(), "schema changed")
}

// --- nil instances -------------------------------------------------------------

func nullableFixture(allowNil bool) serde.Fixture[*int32] {
	one, two := int32(1), int32(-2)
	return serde.Fixture[*int32]{
		NewSerializer: func() serde.Serializer[*int32] {
			return nullable.Wrap(serializers.NewInt32(), false)
		},
		Length:           serde.VariableLength,
		AllowNilInstance: allowNil,
		Samples: func() []*int32 {
			return []*int32{&one, nil, &two}
		},
	}
}

func TestNilInstanceRequiresFixturePermission(t *testing.T) {
	err := conformance.New(nullableFixture(false)).CheckInstantiate()
	require.ErrorIs(t, err, conformance.ErrContractViolation)

	assert.NoError(t, conformance.New(nullableFixture(true)).CheckInstantiate())
}

func TestNullableWrapperConformance(t *testing.T) {
	// The nullable wrapper itself must satisfy the full contract, nil sample
	// values included.
	conformance.New(nullableFixture(true)).RunAll(t)
}

// --- custom equality -----------------------------------------------------------

func TestCustomCheckerDrivesComparisons(t *testing.T) {
	// A comparator that treats all int32 values as equal makes the broken
	// copy-into serializer pass, proving the checker is consulted.
	checker := equality.NewChecker().Register(int32(0), func(_, _ any) bool {
		return true
	})
	fixture := int32Fixture()
	fixture.NewSerializer = func() serde.Serializer[int32] {
		return staleCopyInto{serializers.NewInt32()}
	}

	err := conformance.New(fixture, conformance.WithChecker(checker)).CheckCopyIntoReused()

	assert.NoError(t, err)
}
