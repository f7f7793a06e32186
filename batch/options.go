package batch

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// ErrorPolicy decides what a failing query does to its batch.
type ErrorPolicy int

const (
	// AbortOnError stops the batch and returns the first error.
	AbortOnError ErrorPolicy = iota

	// SkipOnError marks the row missing and continues.
	SkipOnError
)

// String implements fmt.Stringer.
func (p ErrorPolicy) String() string {
	switch p {
	case AbortOnError:
		return "abort"
	case SkipOnError:
		return "skip"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// ParseErrorPolicy maps "abort"/"skip" to an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "abort", "":
		return AbortOnError, nil
	case "skip":
		return SkipOnError, nil
	default:
		return 0, fmt.Errorf("batch: unknown error policy %q", s)
	}
}

// DefaultPolicy is the error policy of a Runner built without options.
const DefaultPolicy = AbortOnError

// DefaultWorkers returns the worker count of a Runner built without
// WithWorkers: one per usable CPU.
func DefaultWorkers() int { return runtime.GOMAXPROCS(0) }

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of concurrent solves. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("batch: WithWorkers(%d): need at least one worker", n))
	}

	return func(r *Runner) { r.workers = n }
}

// WithErrorPolicy sets how failing queries are handled.
func WithErrorPolicy(p ErrorPolicy) Option {
	if p != AbortOnError && p != SkipOnError {
		panic("batch: WithErrorPolicy: unknown policy")
	}

	return func(r *Runner) { r.policy = p }
}

// WithLogger sets the logger; nil restores the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l == nil {
			l = zap.NewNop()
		}
		r.log = l
	}
}

// WithMetrics records every query on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}
