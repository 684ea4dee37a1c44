package conformance

import (
	"time"

	"go.uber.org/zap"

	"github.com/Sokol111/serde-conformance/pkg/serde/equality"
)

// Options contains configuration for a conformance suite.
type Options struct {
	Checker         *equality.Checker
	Logger          *zap.Logger
	WorkerCount     int
	DurationBudget  time.Duration
	ChannelCapacity int
}

// Option is a functional option for configuring a suite.
type Option func(*Options)

// WithChecker replaces the default deep-equality checker, allowing fixtures
// to register type-specific comparators.
func WithChecker(checker *equality.Checker) Option {
	return func(o *Options) {
		o.Checker = checker
	}
}

// WithLogger attaches a logger used for check progress and worker failures.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithWorkerCount sets the number of concurrent workers used by the
// duplication safety check.
func WithWorkerCount(n int) Option {
	return func(o *Options) {
		o.WorkerCount = n
	}
}

// WithDuration sets the wall-clock budget of each duplication safety worker.
func WithDuration(d time.Duration) Option {
	return func(o *Options) {
		o.DurationBudget = d
	}
}

// WithChannelCapacity sets the initial capacity of byte channels created by
// the suite.
func WithChannelCapacity(n int) Option {
	return func(o *Options) {
		o.ChannelCapacity = n
	}
}

// WithConfig applies a loaded Config as a set of options.
func WithConfig(cfg Config) Option {
	return func(o *Options) {
		o.WorkerCount = cfg.WorkerCount
		o.DurationBudget = time.Duration(cfg.DurationBudgetMillis) * time.Millisecond
		o.ChannelCapacity = cfg.ChannelCapacity
	}
}
