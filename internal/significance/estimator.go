// Package significance estimates how surprising a local alignment score is
// with a permutation test.
//
// The reference sequence is shuffled repeatedly and realigned against the
// query. The fraction of shuffles that score at least as well as the real
// pair, with an add-one correction, is the p-value:
//
//	p = (asGoodOrBetter + 1) / (trials + 1)
//
// Trials are spread over a pool of workers. Each worker owns its random
// source, shuffle buffer and DP rows; only the encoded sequences and the
// substitution matrix are shared, read-only.
package significance

import (
	"context"
	"fmt"
	"runtime"

	"github.com/aria-lang/protalign-go/internal/alignment"
	"github.com/aria-lang/protalign-go/internal/sequence"
	"github.com/aria-lang/protalign-go/internal/stats"
	"golang.org/x/sync/errgroup"
)

// InvalidTrialCountError is returned for a negative trial count.
type InvalidTrialCountError struct {
	Trials int
}

func (e *InvalidTrialCountError) Error() string {
	return fmt.Sprintf("trial count must be >= 0, got %d", e.Trials)
}

// Result is the outcome of a permutation test.
type Result struct {
	Observed       int           `json:"observed"`
	Trials         int           `json:"trials"`
	AsGoodOrBetter int           `json:"as_good_or_better"`
	PValue         float64       `json:"p_value"`
	Seed           int64         `json:"seed"`
	Null           stats.Summary `json:"null"`
}

func (r *Result) String() string {
	return fmt.Sprintf("Result { observed: %d, trials: %d, as good or better: %d, p: %g }",
		r.Observed, r.Trials, r.AsGoodOrBetter, r.PValue)
}

// Estimator runs permutation tests. The zero value uses BLOSUM62 with the
// default gap cost, GOMAXPROCS workers and a clock seed.
type Estimator struct {
	// Scoring used for every trial. Nil selects alignment.DefaultProtein.
	Scoring *alignment.Scoring

	// Workers is the number of goroutines; <= 0 means GOMAXPROCS.
	Workers int

	// Seed for the per-worker random sources. Zero seeds from the clock.
	// For a fixed Seed and Workers the result is reproducible.
	Seed int64

	// NewRand, if set, replaces the seeded sources. It is called once per
	// worker, from that worker's goroutine.
	NewRand func(worker int) Rand

	// OnTrial, if set, is called after every trial with its score. It is
	// called from worker goroutines and must be safe for concurrent use.
	OnTrial func(score int)
}

// Estimate aligns seq1 against seq2 once to get the observed score and
// then runs the permutation test.
func (e *Estimator) Estimate(ctx context.Context, seq1, seq2 *sequence.Sequence, trials int) (*Result, error) {
	if trials < 0 {
		return nil, &InvalidTrialCountError{Trials: trials}
	}

	observed, err := alignment.AlignmentScoreOnly(seq1, seq2, e.scoring())
	if err != nil {
		return nil, err
	}

	return e.EstimateObserved(ctx, seq1, seq2, observed, trials)
}

// EstimateObserved runs the permutation test against an observed score the
// caller already has. A trial counts when its score is >= observed.
//
// trials == 0 runs nothing and yields a p-value of 1; callers that want no
// significance test should not call this at all.
//
// Contract:
//
//	requires trials >= 0
//	ensures 0 <= result.AsGoodOrBetter <= trials
//	ensures result.PValue == (result.AsGoodOrBetter + 1) / (trials + 1) when trials > 0
//	ensures 0 < result.PValue <= 1
func (e *Estimator) EstimateObserved(ctx context.Context, seq1, seq2 *sequence.Sequence, observed, trials int) (*Result, error) {
	if trials < 0 {
		return nil, &InvalidTrialCountError{Trials: trials}
	}
	if seq1 == nil || seq2 == nil {
		return nil, fmt.Errorf("sequences must not be nil")
	}

	scoring := e.scoring()
	if scoring.Gap > 0 {
		return nil, &alignment.InvalidGapCostError{Gap: scoring.Gap}
	}

	query, err := scoring.Matrix.Encode(seq1.Residues)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	reference, err := scoring.Matrix.Encode(seq2.Residues)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	seed := e.Seed
	if seed == 0 && e.NewRand == nil {
		seed = clockSeed()
	}

	result := &Result{
		Observed: observed,
		Trials:   trials,
		Seed:     seed,
	}
	if trials == 0 {
		result.PValue = 1
		return result, nil
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > trials {
		workers = trials
	}

	counts := make([]int, workers)
	nulls := make([]stats.Accumulator, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			var r Rand
			if e.NewRand != nil {
				r = e.NewRand(w)
			} else {
				r = WorkerRand(seed, w)
			}

			scorer := alignment.NewScorer(query, scoring)
			shuffled := make([]uint8, len(reference))

			// Trial k belongs to worker k mod workers.
			for k := w; k < trials; k += workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				copy(shuffled, reference)
				Shuffle(r, shuffled)

				score := scorer.Score(shuffled)
				nulls[w].Add(score)
				if score >= observed {
					counts[w]++
				}
				if e.OnTrial != nil {
					e.OnTrial(score)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var null stats.Accumulator
	for w := 0; w < workers; w++ {
		result.AsGoodOrBetter += counts[w]
		null.Merge(&nulls[w])
	}
	result.Null = null.Summary()
	result.PValue = float64(result.AsGoodOrBetter+1) / float64(trials+1)

	return result, nil
}

func (e *Estimator) scoring() *alignment.Scoring {
	if e.Scoring == nil {
		return alignment.DefaultProtein()
	}
	return e.Scoring
}

// PValue is a convenience wrapper running Estimate with a default
// Estimator seeded by seed.
func PValue(ctx context.Context, seq1, seq2 *sequence.Sequence, scoring *alignment.Scoring, trials int, seed int64) (float64, error) {
	e := &Estimator{Scoring: scoring, Seed: seed}
	res, err := e.Estimate(ctx, seq1, seq2, trials)
	if err != nil {
		return 0, err
	}
	return res.PValue, nil
}
