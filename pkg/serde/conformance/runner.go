package conformance

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Sokol111/serde-conformance/pkg/serde"
	"github.com/Sokol111/serde-conformance/pkg/serde/channel"
	"github.com/Sokol111/serde-conformance/pkg/serde/equality"
)

// CheckDuplicateSafety verifies that duplicates of the serializer are
// behaviorally independent. Workers each hold their own duplicate and private
// byte buffers and hammer serialize/deserialize/copy cycles concurrently; a
// serializer that shares a mutable buffer across duplicates manifests as an
// equality failure or error inside at least one worker.
func (s *Suite[T]) CheckDuplicateSafety() error {
	const property = "duplicate safety"
	serializer, samples, err := s.serializerAndSamples()
	if err != nil {
		return err
	}

	duplicate := serializer.Duplicate()
	if duplicate == nil {
		return fmt.Errorf("%w: %s: Duplicate returned nil", ErrContractViolation, property)
	}
	if !duplicate.Equal(serializer) {
		return fmt.Errorf("%w: %s: duplicate does not compare equal to the original", ErrContractViolation, property)
	}

	// Construct every worker up front so that duplication happens before any
	// worker starts, and the original serializer is never touched afterwards.
	workers := lo.Times(s.workers, func(index int) *duplicationWorker[T] {
		return &duplicationWorker[T]{
			index:      index,
			serializer: serializer.Duplicate(),
			samples:    samples,
			checker:    s.checker,
			budget:     s.budget,
			out:        channel.NewWriter(s.chanCap),
			in:         channel.NewReader(nil),
		}
	})

	start := make(chan struct{})
	results := make([]error, len(workers))
	var wg sync.WaitGroup
	wg.Add(len(workers))
	for _, worker := range workers {
		worker := worker
		go func() {
			defer wg.Done()
			<-start
			results[worker.index] = worker.run()
		}()
	}
	close(start)
	wg.Wait()

	var first error
	for i, result := range results {
		if result == nil {
			continue
		}
		s.log.Error("duplication safety worker failed",
			zap.Int("worker", i),
			zap.Error(result))
		if first == nil {
			first = fmt.Errorf("%s: worker %d: %w", property, i, result)
		}
	}
	return first
}

// duplicationWorker owns one duplicate of the serializer under test and a
// private writer/reader pair. No state is shared with other workers.
type duplicationWorker[T any] struct {
	index      int
	serializer serde.Serializer[T]
	samples    []T
	checker    *equality.Checker
	budget     time.Duration
	out        *channel.Writer
	in         *channel.Reader
}

// run cycles through the full sample set until the time budget elapses. The
// deadline is checked after each complete pass, never mid-operation.
func (w *duplicationWorker[T]) run() error {
	deadline := time.Now().Add(w.budget)
	for {
		for i, sample := range w.samples {
			w.out.Reset()
			if err := w.serializer.Serialize(sample, w.out); err != nil {
				return fmt.Errorf("%w: sample %d failed to serialize: %w", ErrContractViolation, i, err)
			}
			w.in.SetBytes(w.out.Bytes())
			decoded, err := w.serializer.Deserialize(w.in)
			if err != nil {
				return fmt.Errorf("%w: sample %d failed to deserialize: %w", ErrContractViolation, i, err)
			}
			copied := w.serializer.Copy(decoded)
			render(copied)
			if !w.checker.Equals(sample, copied) {
				return fmt.Errorf("%w: serialize/deserialize/copy cycle of sample %d produced a different value: %s",
					ErrContractViolation, i, equality.Describe(sample, copied))
			}
		}
		if time.Now().After(deadline) {
			return nil
		}
	}
}
