package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator(t *testing.T) {
	var acc Accumulator
	for _, x := range []int{2, 4, 4, 4, 5, 5, 7, 9} {
		acc.Add(x)
	}

	s := acc.Summary()
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	// Sample variance = 32 / 7.
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-9)
	assert.Equal(t, 2, s.Min)
	assert.Equal(t, 9, s.Max)
}

func TestAccumulatorEmptyAndSingle(t *testing.T) {
	var acc Accumulator
	assert.Equal(t, Summary{}, acc.Summary())

	acc.Add(-3)
	s := acc.Summary()
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, -3.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, -3, s.Min)
	assert.Equal(t, -3, s.Max)
}

func TestMerge(t *testing.T) {
	data := []int{12, 3, 8, 8, 21, 0, 5, 17, 9, 4}

	var whole Accumulator
	for _, x := range data {
		whole.Add(x)
	}

	var left, right, empty Accumulator
	for _, x := range data[:3] {
		left.Add(x)
	}
	for _, x := range data[3:] {
		right.Add(x)
	}

	left.Merge(&right)
	left.Merge(&empty)
	left.Merge(nil)

	want, got := whole.Summary(), left.Summary()
	require.Equal(t, want.Count, got.Count)
	assert.InDelta(t, want.Mean, got.Mean, 1e-9)
	assert.InDelta(t, want.StdDev, got.StdDev, 1e-9)
	assert.Equal(t, want.Min, got.Min)
	assert.Equal(t, want.Max, got.Max)

	var fresh Accumulator
	fresh.Merge(&whole)
	assert.Equal(t, whole.Summary(), fresh.Summary())
}

func TestZScore(t *testing.T) {
	s := Summary{Count: 10, Mean: 10, StdDev: 2}
	assert.InDelta(t, 2.5, s.ZScore(15), 1e-9)
	assert.InDelta(t, -1.0, s.ZScore(8), 1e-9)

	flat := Summary{Count: 3, Mean: 4}
	assert.True(t, math.IsInf(flat.ZScore(5), 1))
	assert.True(t, math.IsInf(flat.ZScore(3), -1))
	assert.Equal(t, 0.0, flat.ZScore(4))
}
