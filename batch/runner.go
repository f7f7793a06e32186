package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/gclp/attributes"
	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
	"github.com/katalvlaran/gclp/stability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sentinel errors.
var (
	// ErrNoExtractor indicates Attributes on a Runner built without an extractor.
	ErrNoExtractor = errors.New("batch: runner has no attribute extractor")

	// ErrNoScorer indicates Stability or Label on a Runner built without a scorer.
	ErrNoScorer = errors.New("batch: runner has no stability scorer")

	// ErrNoSolver indicates Solve on a Runner built without extractor or scorer.
	ErrNoSolver = errors.New("batch: runner has no solver")
)

// SolveRow is the outcome for one target.
type SolveRow struct {
	Target      composition.Composition
	Equilibrium equilibrium.Equilibrium
	Err         error // set only under SkipOnError
}

// AttributeRow is the outcome for one target.
type AttributeRow struct {
	Target     composition.Composition
	Attributes attributes.Attributes
	Err        error // set only under SkipOnError
}

// LabelRow is the filter outcome for one entry. Keep is false whenever
// Err is set.
type LabelRow struct {
	Entry stability.Entry
	Keep  bool
	Err   error // set only under SkipOnError
}

// StabilityRow is the outcome for one entry.
type StabilityRow struct {
	Entry  stability.Entry
	Result stability.Result
	Err    error // set only under SkipOnError
}

// Runner fans queries out over a bounded set of workers.
type Runner struct {
	extractor *attributes.Extractor
	scorer    *stability.Scorer
	workers   int
	policy    ErrorPolicy
	log       *zap.Logger
	metrics   *Metrics
}

// NewRunner returns a Runner. Either x or sc may be nil when the matching
// operations are not needed.
func NewRunner(x *attributes.Extractor, sc *stability.Scorer, opts ...Option) *Runner {
	r := &Runner{
		extractor: x,
		scorer:    sc,
		workers:   DefaultWorkers(),
		policy:    DefaultPolicy,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Workers returns the concurrency bound.
func (r *Runner) Workers() int { return r.workers }

// Policy returns the error policy.
func (r *Runner) Policy() ErrorPolicy { return r.policy }

// Solve computes the equilibrium of every target with the solver shared by
// the extractor and scorer.
//
// Under SkipOnError a failing row has an empty equilibrium and its error.
func (r *Runner) Solve(ctx context.Context, targets []composition.Composition) ([]SolveRow, error) {
	solver := r.solver()
	if solver == nil {
		return nil, ErrNoSolver
	}
	rows := make([]SolveRow, len(targets))
	err := r.run(ctx, "solve", len(targets), func(i int) error {
		start := time.Now()
		eq, err := solver.Solve(targets[i])
		r.metrics.observe(start, eq.Len(), err)
		rows[i] = SolveRow{Target: targets[i], Equilibrium: eq}
		if err != nil {
			return r.fail(i, targets[i], &rows[i].Err, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Attributes extracts the descriptors of every target.
//
// Under SkipOnError a failing row holds attributes.Missing() and its error.
func (r *Runner) Attributes(ctx context.Context, targets []composition.Composition) ([]AttributeRow, error) {
	if r.extractor == nil {
		return nil, ErrNoExtractor
	}
	rows := make([]AttributeRow, len(targets))
	err := r.run(ctx, "attributes", len(targets), func(i int) error {
		start := time.Now()
		a, err := r.extractor.Extract(targets[i])
		phases := a.PhaseCount
		if err != nil {
			phases = -1
		}
		r.metrics.observe(start, phases, err)
		rows[i] = AttributeRow{Target: targets[i], Attributes: a}
		if err != nil {
			rows[i].Attributes = attributes.Missing()
			return r.fail(i, targets[i], &rows[i].Err, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Stability scores the measured and predicted energy of every entry.
//
// Under SkipOnError a failing row has a NaN hull and NaN stabilities for
// the energies the entry carries.
func (r *Runner) Stability(ctx context.Context, entries []stability.Entry) ([]StabilityRow, error) {
	if r.scorer == nil {
		return nil, ErrNoScorer
	}
	rows := make([]StabilityRow, len(entries))
	err := r.run(ctx, "stability", len(entries), func(i int) error {
		start := time.Now()
		res, err := r.scorer.ScoreEntry(entries[i])
		r.metrics.observe(start, -1, err)
		rows[i] = StabilityRow{Entry: entries[i], Result: res}
		if err != nil {
			rows[i].Result = missingResult(entries[i])
			return r.fail(i, entries[i].Composition, &rows[i].Err, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Label applies f to every entry. The filter's own scorer is replaced by
// the Runner's. Under SkipOnError a failing row has Keep false and its error.
func (r *Runner) Label(ctx context.Context, f stability.Filter, entries []stability.Entry) ([]LabelRow, error) {
	if r.scorer == nil {
		return nil, ErrNoScorer
	}
	f.Scorer = r.scorer
	rows := make([]LabelRow, len(entries))
	err := r.run(ctx, "label", len(entries), func(i int) error {
		start := time.Now()
		keep, err := f.Keep(entries[i])
		r.metrics.observe(start, -1, err)
		rows[i] = LabelRow{Entry: entries[i], Keep: keep}
		if err != nil {
			rows[i].Keep = false
			return r.fail(i, entries[i].Composition, &rows[i].Err, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *Runner) solver() *equilibrium.Solver {
	switch {
	case r.extractor != nil:
		return r.extractor.Solver()
	case r.scorer != nil:
		return r.scorer.Solver()
	default:
		return nil
	}
}

// fail applies the error policy to a failed query i: under AbortOnError it
// returns the wrapped error, otherwise it stores err in *dst and logs it.
func (r *Runner) fail(i int, c composition.Composition, dst *error, err error) error {
	if r.policy == AbortOnError {
		return fmt.Errorf("batch: query %d (%s): %w", i, c, err)
	}
	*dst = err
	r.log.Warn("query skipped",
		zap.Int("index", i),
		zap.Stringer("composition", c),
		zap.Error(err))

	return nil
}

// run calls fn for 0..n-1 over contiguous shards.
//
// Implementation:
//   - Stage 1: split into 2×workers shards.
//   - Stage 2: schedule shards on an errgroup limited to workers; stop
//     scheduling once the group context is done.
//   - Stage 3: wait, then surface either the first fn error or the
//     caller's context error.
func (r *Runner) run(ctx context.Context, op string, n int, fn func(i int) error) error {
	start := time.Now()

	// Stage 1: shard size.
	size := shardSize(n, r.workers)

	// Stage 2: dispatch.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for lo := 0; lo < n; lo += size {
		if gctx.Err() != nil {
			break
		}
		lo := lo
		hi := min(lo+size, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	// Stage 3: collect.
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("queries", n),
		zap.Int("workers", r.workers),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		r.log.Error("batch aborted", append(fields, zap.Error(err))...)
		return err
	}
	r.log.Info("batch done", fields...)

	return nil
}

// shardSize returns the length of each contiguous shard so that n queries
// form at most 2×workers shards.
func shardSize(n, workers int) int {
	shards := 2 * workers
	if n <= shards {
		return 1
	}

	return (n + shards - 1) / shards
}

func missingResult(e stability.Entry) stability.Result {
	nan := math.NaN()
	res := stability.Result{Hull: nan}
	if e.Measured != nil {
		v := nan
		res.Measured = &v
	}
	if e.Predicted != nil {
		v := nan
		res.Predicted = &v
	}

	return res
}
