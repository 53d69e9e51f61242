// Package stats provides running summaries of score distributions.
//
// The significance estimator feeds every shuffled-trial score through an
// Accumulator. Individual scores are never stored; only the running moments
// and extremes survive, so memory does not grow with the trial count.
package stats

import (
	"fmt"
	"math"
)

// Accumulator tracks count, mean, variance (Welford), minimum and maximum
// of a stream of integer scores. The zero value is ready to use. An
// Accumulator is not safe for concurrent use.
type Accumulator struct {
	count int
	mean  float64
	m2    float64
	min   int
	max   int
}

// Add records one observation.
func (a *Accumulator) Add(x int) {
	a.count++
	if a.count == 1 {
		a.min, a.max = x, x
	} else {
		if x < a.min {
			a.min = x
		}
		if x > a.max {
			a.max = x
		}
	}

	delta := float64(x) - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (float64(x) - a.mean)
}

// Merge folds other into a, as if every observation of other had been
// added to a.
//
// Contract:
//
//	ensures a.Summary() equals the summary of both sample sets added to one accumulator
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil || other.count == 0 {
		return
	}
	if a.count == 0 {
		*a = *other
		return
	}

	n := a.count + other.count
	delta := other.mean - a.mean
	a.m2 += other.m2 + delta*delta*float64(a.count)*float64(other.count)/float64(n)
	a.mean += delta * float64(other.count) / float64(n)
	a.count = n
	if other.min < a.min {
		a.min = other.min
	}
	if other.max > a.max {
		a.max = other.max
	}
}

// Count returns the number of observations.
func (a *Accumulator) Count() int {
	return a.count
}

// Summary returns the current summary.
func (a *Accumulator) Summary() Summary {
	s := Summary{
		Count: a.count,
		Mean:  a.mean,
		Min:   a.min,
		Max:   a.max,
	}
	if a.count > 1 {
		s.StdDev = math.Sqrt(a.m2 / float64(a.count-1))
	}
	return s
}

// Summary describes a distribution of scores. StdDev is the sample
// standard deviation and is 0 for fewer than two observations.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// ZScore returns how many standard deviations x lies above the mean. It
// returns +Inf or -Inf when the distribution has no spread and x differs
// from the mean, and 0 when x equals it.
func (s Summary) ZScore(x int) float64 {
	diff := float64(x) - s.Mean
	if s.StdDev == 0 {
		switch {
		case diff > 0:
			return math.Inf(1)
		case diff < 0:
			return math.Inf(-1)
		default:
			return 0
		}
	}
	return diff / s.StdDev
}

func (s Summary) String() string {
	return fmt.Sprintf("Summary { n: %d, mean: %.3f, sd: %.3f, min: %d, max: %d }",
		s.Count, s.Mean, s.StdDev, s.Min, s.Max)
}
