package conformance_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
	"github.com/Sokol111/serde-conformance/pkg/serde/conformance"
	"github.com/Sokol111/serde-conformance/pkg/serde/serializers"
)

func TestDuplicateSafetyPassesForStatelessSerializer(t *testing.T) {
	suite := conformance.New(int32Fixture(),
		conformance.WithWorkerCount(4),
		conformance.WithDuration(30*time.Millisecond),
		conformance.WithLogger(zaptest.NewLogger(t)),
	)

	assert.NoError(t, suite.CheckDuplicateSafety())
}

// nonDuplicatingSerializer returns itself from Duplicate while routing every
// value through one shared slot, modeling a serializer whose "duplicates"
// share a parsing buffer. Single-threaded use is correct; concurrent
// duplicates corrupt each other. The slot is mutex-guarded so the defect
// shows up as corruption, not as a data race.
type nonDuplicatingSerializer struct {
	shared *sharedSlot
}

type sharedSlot struct {
	mu    sync.Mutex
	value int32
}

func newNonDuplicatingSerializer() *nonDuplicatingSerializer {
	return &nonDuplicatingSerializer{shared: &sharedSlot{}}
}

func (s *nonDuplicatingSerializer) CreateInstance() int32 { return 0 }
func (s *nonDuplicatingSerializer) Copy(v int32) int32    { return v }
func (s *nonDuplicatingSerializer) CopyInto(v int32, _ int32) int32 {
	return v
}

func (s *nonDuplicatingSerializer) CopyBytes(src *channel.Reader, dst *channel.Writer) error {
	return dst.WriteFrom(src, 4)
}

func (s *nonDuplicatingSerializer) Serialize(v int32, out *channel.Writer) error {
	s.shared.mu.Lock()
	s.shared.value = v
	s.shared.mu.Unlock()
	return out.WriteUint32(uint32(v))
}

func (s *nonDuplicatingSerializer) Deserialize(in *channel.Reader) (int32, error) {
	if _, err := in.ReadUint32(); err != nil {
		return 0, err
	}
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	return s.shared.value, nil
}

func (s *nonDuplicatingSerializer) DeserializeInto(_ int32, in *channel.Reader) (int32, error) {
	return s.Deserialize(in)
}

func (s *nonDuplicatingSerializer) Length() int { return 4 }

// Duplicate returns the receiver: no real duplication takes place.
func (s *nonDuplicatingSerializer) Duplicate() serde.Serializer[int32] { return s }

func (s *nonDuplicatingSerializer) Snapshot() serde.Snapshot[int32] {
	return serializers.NewInt32().Snapshot()
}

func (s *nonDuplicatingSerializer) Equal(other serde.Serializer[int32]) bool {
	_, ok := other.(*nonDuplicatingSerializer)
	return ok
}

func TestSharedStateAcrossDuplicatesIsDetected(t *testing.T) {
	fixture := serde.Fixture[int32]{
		NewSerializer: func() serde.Serializer[int32] { return newNonDuplicatingSerializer() },
		Length:        4,
		Samples: func() []int32 {
			return []int32{1, 2, 3, 4, 5, 6, 7, 8}
		},
	}
	suite := conformance.New(fixture,
		conformance.WithWorkerCount(10),
		conformance.WithDuration(120*time.Millisecond),
	)

	err := suite.CheckDuplicateSafety()

	require.ErrorIs(t, err, conformance.ErrContractViolation)
	assert.Contains(t, err.Error(), "worker")
}

func TestDuplicateMustCompareEqual(t *testing.T) {
	fixture := int32Fixture()
	fixture.NewSerializer = func() serde.Serializer[int32] {
		return unequalDuplicate{serializers.NewInt32()}
	}

	err := conformance.New(fixture).CheckDuplicateSafety()

	require.ErrorIs(t, err, conformance.ErrContractViolation)
	assert.Contains(t, err.Error(), "duplicate")
}

// unequalDuplicate duplicates into a serializer that no longer compares equal.
type unequalDuplicate struct {
	serde.Serializer[int32]
}

func (u unequalDuplicate) Duplicate() serde.Serializer[int32] {
	return serializers.NewInt32()
}

func (u unequalDuplicate) Equal(other serde.Serializer[int32]) bool {
	_, ok := other.(unequalDuplicate)
	return ok
}
