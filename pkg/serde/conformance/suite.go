// Package conformance mechanically verifies the correctness properties every
// serializer implementation must satisfy: round-trip fidelity, copy fidelity,
// reuse safety, raw byte-copy equivalence, configuration-snapshot
// compatibility, null handling, and duplication safety under concurrency.
//
// Every reconstructed value is rendered through the fmt package once. This is
// further evidence that the value is actually correct: some broken
// implementations produce values that compare equal by coincidence while
// their internal state is corrupt, which only surfaces when the value is
// formatted.
package conformance

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
	"github.com/Sokol111/serde-conformance/pkg/serde/equality"
	"github.com/Sokol111/serde-conformance/pkg/serde/nullable"
)

// Suite drives one serializer implementation, described by a fixture, through
// all conformance checks. Each Check method is an independent pass/fail unit
// returning a nil error on success.
type Suite[T any] struct {
	fixture serde.Fixture[T]
	checker *equality.Checker
	log     *zap.Logger
	workers int
	budget  time.Duration
	chanCap int
}

// New creates a suite for the given fixture.
func New[T any](fixture serde.Fixture[T], opts ...Option) *Suite[T] {
	options := Options{
		Checker:         equality.NewChecker(),
		Logger:          zap.NewNop(),
		WorkerCount:     defaultWorkerCount,
		DurationBudget:  defaultDurationBudgetMillis * time.Millisecond,
		ChannelCapacity: defaultChannelCapacity,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Suite[T]{
		fixture: fixture,
		checker: options.Checker,
		log:     options.Logger,
		workers: options.WorkerCount,
		budget:  options.DurationBudget,
		chanCap: options.ChannelCapacity,
	}
}

// RunAll runs every check as an independent subtest of t. A defective
// fixture fails the parent test before any subtest runs.
func (s *Suite[T]) RunAll(t *testing.T) {
	if _, _, err := s.serializerAndSamples(); err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		name  string
		check func() error
	}{
		{"Instantiate", s.CheckInstantiate},
		{"Length", s.CheckLength},
		{"Copy", s.CheckCopy},
		{"CopyIntoNewElements", s.CheckCopyIntoNew},
		{"CopyIntoReusedElements", s.CheckCopyIntoReused},
		{"SerializeIndividually", s.CheckSerializeIndividually},
		{"SerializeIndividuallyReusingValues", s.CheckSerializeIndividuallyReusing},
		{"SerializeAsSequence", s.CheckSerializeAsSequence},
		{"SerializeAsSequenceReusingValues", s.CheckSerializeAsSequenceReusing},
		{"SerializedCopyIndividually", s.CheckSerializedCopyIndividually},
		{"SerializedCopyAsSequence", s.CheckSerializedCopyAsSequence},
		{"SerializabilityAndEquals", s.CheckSerializabilityAndEquals},
		{"Nullability", s.CheckNullability},
		{"SnapshotRoundTrip", s.CheckSnapshotRoundTrip},
		{"DuplicateSafety", s.CheckDuplicateSafety},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if err := c.check(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

// CheckInstantiate verifies that CreateInstance returns a non-nil value,
// unless the fixture explicitly allows nil default instances.
func (s *Suite[T]) CheckInstantiate() error {
	serializer, err := s.newSerializer()
	if err != nil {
		return err
	}
	instance := serializer.CreateInstance()
	if isNilValue(instance) && !s.fixture.AllowNilInstance {
		return fmt.Errorf("%w: instantiate: the created instance must not be nil", ErrContractViolation)
	}
	return nil
}

// CheckLength verifies that the serializer reports exactly the fixture's
// declared length. A declared length of zero marks a defective fixture.
func (s *Suite[T]) CheckLength() error {
	if s.fixture.Length == 0 {
		return fmt.Errorf("%w: zero length cannot be the expected length", ErrFixtureDefect)
	}
	serializer, err := s.newSerializer()
	if err != nil {
		return err
	}
	if got := serializer.Length(); got != s.fixture.Length {
		return fmt.Errorf("%w: length: reported %d, want %d", ErrContractViolation, got, s.fixture.Length)
	}
	return nil
}

// CheckCopy verifies that Copy yields a deep-equal value for every sample.
func (s *Suite[T]) CheckCopy() error {
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}
	for i, value := range samples {
		copied := serializer.Copy(value)
		render(copied)
		if err := s.deepEqual("copy", i, value, copied); err != nil {
			return err
		}
	}
	return nil
}

// CheckCopyIntoNew verifies CopyInto with a fresh target per sample.
func (s *Suite[T]) CheckCopyIntoNew() error {
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}
	for i, value := range samples {
		copied := serializer.CopyInto(value, serializer.CreateInstance())
		render(copied)
		if err := s.deepEqual("copy into new target", i, value, copied); err != nil {
			return err
		}
	}
	return nil
}

// CheckCopyIntoReused verifies CopyInto with one target carried across
// iterations. Any state retained from the previous occupant corrupts the
// comparison against the current sample.
func (s *Suite[T]) CheckCopyIntoReused() error {
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}
	target := serializer.CreateInstance()
	for i, value := range samples {
		copied := serializer.CopyInto(value, target)
		render(copied)
		if err := s.deepEqual("copy into reused target", i, value, copied); err != nil {
			return err
		}
		target = copied
	}
	return nil
}

// CheckSerializeIndividually round-trips each sample through its own channel
// with a fresh deserialization target.
func (s *Suite[T]) CheckSerializeIndividually() error {
	return s.roundTripIndividually("serialize individually", func(serializer serde.Serializer[T], in *channel.Reader) (T, error) {
		return serializer.Deserialize(in)
	})
}

// CheckSerializeIndividuallyReusing round-trips each sample through its own
// channel, carrying one deserialization target across iterations.
func (s *Suite[T]) CheckSerializeIndividuallyReusing() error {
	serializer, err := s.newSerializer()
	if err != nil {
		return err
	}
	reuse := serializer.CreateInstance()
	return s.roundTripIndividually("serialize individually reusing values", func(serializer serde.Serializer[T], in *channel.Reader) (T, error) {
		var err error
		reuse, err = serializer.DeserializeInto(reuse, in)
		return reuse, err
	})
}

func (s *Suite[T]) roundTripIndividually(property string, decode func(serde.Serializer[T], *channel.Reader) (T, error)) error {
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}
	for i, value := range samples {
		out := channel.NewWriter(s.chanCap)
		if err := serializer.Serialize(value, out); err != nil {
			return fmt.Errorf("%w: %s: sample %d failed to serialize: %w", ErrContractViolation, property, i, err)
		}
		in := out.Freeze()
		if in.Available() == 0 {
			return fmt.Errorf("%w: %s: no data available after serializing sample %d", ErrContractViolation, property, i)
		}
		decoded, err := decode(serializer, in)
		if err != nil {
			return fmt.Errorf("%w: %s: sample %d failed to deserialize: %w", ErrContractViolation, property, i, err)
		}
		render(decoded)
		if err := s.deepEqual(property, i, value, decoded); err != nil {
			return err
		}
		if in.Available() != 0 {
			return fmt.Errorf("%w: %s: %d trailing bytes after deserializing sample %d",
				ErrContractViolation, property, in.Available(), i)
		}
	}
	return nil
}

// CheckSerializeAsSequence writes all samples into one channel and reads them
// back in order with fresh targets.
func (s *Suite[T]) CheckSerializeAsSequence() error {
	return s.roundTripSequence("serialize as sequence", func(serializer serde.Serializer[T], in *channel.Reader) (T, error) {
		return serializer.Deserialize(in)
	})
}

// CheckSerializeAsSequenceReusing is the sequence round-trip with one
// deserialization target reused across all reads.
func (s *Suite[T]) CheckSerializeAsSequenceReusing() error {
	serializer, err := s.newSerializer()
	if err != nil {
		return err
	}
	reuse := serializer.CreateInstance()
	return s.roundTripSequence("serialize as sequence reusing values", func(serializer serde.Serializer[T], in *channel.Reader) (T, error) {
		var err error
		reuse, err = serializer.DeserializeInto(reuse, in)
		return reuse, err
	})
}

func (s *Suite[T]) roundTripSequence(property string, decode func(serde.Serializer[T], *channel.Reader) (T, error)) error {
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}
	out := channel.NewWriter(s.chanCap)
	for i, value := range samples {
		if err := serializer.Serialize(value, out); err != nil {
			return fmt.Errorf("%w: %s: sample %d failed to serialize: %w", ErrContractViolation, property, i, err)
		}
	}
	in := out.Freeze()
	return s.drainAndCompare(property, serializer, samples, in, decode)
}

func (s *Suite[T]) drainAndCompare(property string, serializer serde.Serializer[T], samples []T, in *channel.Reader, decode func(serde.Serializer[T], *channel.Reader) (T, error)) error {
	num := 0
	for in.Available() > 0 {
		if num >= len(samples) {
			return fmt.Errorf("%w: %s: more than the %d expected values available",
				ErrContractViolation, property, len(samples))
		}
		decoded, err := decode(serializer, in)
		if err != nil {
			return fmt.Errorf("%w: %s: value %d failed to deserialize: %w", ErrContractViolation, property, num, err)
		}
		render(decoded)
		if err := s.deepEqual(property, num, samples[num], decoded); err != nil {
			return err
		}
		num++
	}
	if num != len(samples) {
		return fmt.Errorf("%w: %s: deserialized %d values, want %d", ErrContractViolation, property, num, len(samples))
	}
	return nil
}

// CheckSerializedCopyIndividually verifies that the raw byte-range copy path
// is byte-identical to the typed path, one value at a time.
func (s *Suite[T]) CheckSerializedCopyIndividually() error {
	const property = "serialized copy individually"
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}
	for i, value := range samples {
		out := channel.NewWriter(s.chanCap)
		if err := serializer.Serialize(value, out); err != nil {
			return fmt.Errorf("%w: %s: sample %d failed to serialize: %w", ErrContractViolation, property, i, err)
		}

		src := out.Freeze()
		target := channel.NewWriter(s.chanCap)
		if err := serializer.CopyBytes(src, target); err != nil {
			return fmt.Errorf("%w: %s: sample %d failed to raw-copy: %w", ErrContractViolation, property, i, err)
		}
		if src.Available() != 0 {
			return fmt.Errorf("%w: %s: %d source bytes unconsumed after raw-copying sample %d",
				ErrContractViolation, property, src.Available(), i)
		}

		verify := target.Freeze()
		if verify.Available() == 0 {
			return fmt.Errorf("%w: %s: no data available after raw-copying sample %d", ErrContractViolation, property, i)
		}
		decoded, err := serializer.Deserialize(verify)
		if err != nil {
			return fmt.Errorf("%w: %s: sample %d failed to deserialize from copy: %w", ErrContractViolation, property, i, err)
		}
		render(decoded)
		if err := s.deepEqual(property, i, value, decoded); err != nil {
			return err
		}
		if verify.Available() != 0 {
			return fmt.Errorf("%w: %s: %d trailing bytes after deserializing copied sample %d",
				ErrContractViolation, property, verify.Available(), i)
		}
	}
	return nil
}

// CheckSerializedCopyAsSequence raw-copies all contiguously written records
// one by one and deserializes them back in order.
func (s *Suite[T]) CheckSerializedCopyAsSequence() error {
	const property = "serialized copy as sequence"
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}
	out := channel.NewWriter(s.chanCap)
	for i, value := range samples {
		if err := serializer.Serialize(value, out); err != nil {
			return fmt.Errorf("%w: %s: sample %d failed to serialize: %w", ErrContractViolation, property, i, err)
		}
	}

	src := out.Freeze()
	target := channel.NewWriter(s.chanCap)
	for i := range samples {
		if err := serializer.CopyBytes(src, target); err != nil {
			return fmt.Errorf("%w: %s: record %d failed to raw-copy: %w", ErrContractViolation, property, i, err)
		}
	}
	if src.Available() != 0 {
		return fmt.Errorf("%w: %s: %d source bytes unconsumed after raw-copying all records",
			ErrContractViolation, property, src.Available())
	}

	return s.drainAndCompare(property, serializer, samples, target.Freeze(),
		func(serializer serde.Serializer[T], in *channel.Reader) (T, error) {
			return serializer.Deserialize(in)
		})
}

// CheckSerializabilityAndEquals clones the serializer through its snapshot's
// binary form and verifies the clone compares equal to the original.
func (s *Suite[T]) CheckSerializabilityAndEquals() error {
	serializer, err := s.newSerializer()
	if err != nil {
		return err
	}
	clone, err := s.cloneSerializer(serializer)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCloneFailure, err)
	}
	if !serializer.Equal(clone) {
		return fmt.Errorf("%w: serializability: the clone of the serializer is not equal to the original one",
			ErrContractViolation)
	}
	return nil
}

// cloneSerializer is the generic clone mechanism: the configuration snapshot
// is written to a channel, read back into a fresh serializer's snapshot, and
// the serializer is restored from it.
func (s *Suite[T]) cloneSerializer(serializer serde.Serializer[T]) (serde.Serializer[T], error) {
	snapshot := serializer.Snapshot()
	if snapshot == nil {
		return nil, fmt.Errorf("serializer returned a nil configuration snapshot")
	}
	out := channel.NewWriter(s.chanCap)
	if err := snapshot.WriteSnapshot(out); err != nil {
		return nil, fmt.Errorf("failed to write configuration snapshot: %w", err)
	}

	fresh, err := s.newSerializer()
	if err != nil {
		return nil, err
	}
	restored := fresh.Snapshot()
	if restored == nil {
		return nil, fmt.Errorf("serializer returned a nil configuration snapshot")
	}
	in := out.Freeze()
	if err := restored.ReadSnapshot(in); err != nil {
		return nil, fmt.Errorf("failed to read configuration snapshot back: %w", err)
	}
	if in.Available() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after reading configuration snapshot", in.Available())
	}
	clone := restored.RestoreSerializer()
	if clone == nil {
		return nil, fmt.Errorf("restored snapshot produced a nil serializer")
	}
	return clone, nil
}

// CheckNullability verifies that the serializer supports nullable wrapping
// without violating its other contracts.
func (s *Suite[T]) CheckNullability() error {
	serializer, err := s.newSerializer()
	if err != nil {
		return err
	}
	if err := nullable.VerifySupport(serializer); err != nil {
		return fmt.Errorf("%w: null value handling: %w", ErrContractViolation, err)
	}
	return nil
}

// CheckSnapshotRoundTrip writes the configuration snapshot through the byte
// channel, restores it, resolves it against a fresh serializer of the same
// configuration, and verifies the resulting serializer's configuration equals
// the original's. An incompatible resolution is a hard failure.
func (s *Suite[T]) CheckSnapshotRoundTrip() error {
	const property = "snapshot round trip"
	serializer, err := s.newSerializer()
	if err != nil {
		return err
	}
	snapshot := serializer.Snapshot()
	if snapshot == nil {
		return fmt.Errorf("%w: %s: serializer returned a nil configuration snapshot", ErrContractViolation, property)
	}

	out := channel.NewWriter(s.chanCap)
	if err := snapshot.WriteSnapshot(out); err != nil {
		return fmt.Errorf("%w: %s: failed to write snapshot: %w", ErrContractViolation, property, err)
	}

	fresh, err := s.newSerializer()
	if err != nil {
		return err
	}
	restored := fresh.Snapshot()
	if restored == nil {
		return fmt.Errorf("%w: %s: serializer returned a nil configuration snapshot", ErrContractViolation, property)
	}
	in := out.Freeze()
	if err := restored.ReadSnapshot(in); err != nil {
		return fmt.Errorf("%w: %s: failed to read snapshot back: %w", ErrContractViolation, property, err)
	}
	if in.Available() != 0 {
		return fmt.Errorf("%w: %s: %d trailing bytes after reading snapshot",
			ErrContractViolation, property, in.Available())
	}

	current, err := s.newSerializer()
	if err != nil {
		return err
	}
	outcome := restored.ResolveCompatibility(current)

	var resolved serde.Serializer[T]
	switch {
	case outcome.IsCompatibleAsIs():
		resolved = restored.RestoreSerializer()
	case outcome.IsCompatibleAfterReconfiguration():
		resolved = outcome.ReconfiguredSerializer()
	default:
		return fmt.Errorf("%w: %s: unable to restore serializer: %s", ErrContractViolation, property, outcome)
	}
	if resolved == nil {
		return fmt.Errorf("%w: %s: resolution yielded a nil serializer", ErrContractViolation, property)
	}
	if !serializer.Equal(resolved) {
		return fmt.Errorf("%w: %s: restored serializer configuration differs from the original",
			ErrContractViolation, property)
	}
	return nil
}

// ----------------------------------------------------------------------------

func (s *Suite[T]) deepEqual(property string, index int, expected, actual T) error {
	if !s.checker.Equals(expected, actual) {
		return fmt.Errorf("%w: %s: sample %d: %s",
			ErrContractViolation, property, index, equality.Describe(expected, actual))
	}
	return nil
}

func (s *Suite[T]) newSerializer() (serde.Serializer[T], error) {
	if s.fixture.NewSerializer == nil {
		return nil, fmt.Errorf("%w: fixture has no serializer factory", ErrFixtureDefect)
	}
	serializer := s.fixture.NewSerializer()
	if serializer == nil {
		return nil, fmt.Errorf("%w: fixture returned a nil serializer", ErrFixtureDefect)
	}
	return serializer, nil
}

func (s *Suite[T]) samples() ([]T, error) {
	if s.fixture.Samples == nil {
		return nil, fmt.Errorf("%w: fixture has no sample values", ErrFixtureDefect)
	}
	samples := s.fixture.Samples()
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: fixture returned an empty sample value set", ErrFixtureDefect)
	}
	return samples, nil
}

func (s *Suite[T]) serializerAndSamples() (serde.Serializer[T], []T, error) {
	serializer, err := s.newSerializer()
	if err != nil {
		return nil, nil, err
	}
	samples, err := s.samples()
	if err != nil {
		return nil, nil, err
	}
	return serializer, samples, nil
}

// render formats a reconstructed value once to surface latent internal
// corruption that equality alone might miss.
func render[T any](v T) {
	_ = fmt.Sprintf("%v", v)
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
