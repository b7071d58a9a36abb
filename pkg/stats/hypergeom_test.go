package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// Hand-computed values for drawing 5 from a population of 10 with 4 marked:
// pmf = [6, 60, 120, 60, 6] / 252.
func TestHyperExactValues(t *testing.T) {

	tests := []struct {
		name       string
		sampleHits int
		want       float64
	}{
		{"lower boundary", 0, -6.0 / 252.0},
		{"low tail", 1, -66.0 / 252.0},
		{"upper tail", 3, 66.0 / 252.0},
		{"upper boundary", 4, 6.0 / 252.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Hyper(tc.sampleHits, 5, 4, 10)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestHyperBoundariesDoNotFail(t *testing.T) {

	// Both edges of the support are valid observations.
	low, err := Hyper(0, 20, 5, 100)
	require.NoError(t, err)
	require.Negative(t, low)

	high, err := Hyper(20, 20, 80, 100)
	require.NoError(t, err)
	require.Positive(t, high)
}

// More extreme counts are more significant: |value| shrinks from the mode
// toward either tail.
func TestHyperTailMonotonicity(t *testing.T) {

	const sampleSize, popHits, popSize = 30, 40, 120
	mode := sampleSize * popHits / popSize // ~ n*K/N

	prev := math.Inf(1)
	for k := mode; k >= 0; k-- {
		v, err := Hyper(k, sampleSize, popHits, popSize)
		require.NoError(t, err)
		require.LessOrEqual(t, math.Abs(v), prev, "k=%d", k)
		prev = math.Abs(v)
	}

	prev = math.Inf(1)
	for k := mode; k <= sampleSize; k++ {
		v, err := Hyper(k, sampleSize, popHits, popSize)
		require.NoError(t, err)
		require.LessOrEqual(t, math.Abs(v), prev, "k=%d", k)
		prev = math.Abs(v)
	}
}

func TestHyperSignEncodesDirection(t *testing.T) {

	// Far below expectation: under-represented, negative.
	under, err := Hyper(1, 50, 60, 100)
	require.NoError(t, err)
	require.Negative(t, under)

	// Far above expectation: over-represented, positive.
	over, err := Hyper(49, 50, 60, 100)
	require.NoError(t, err)
	require.Positive(t, over)
}

func TestHyperBadParams(t *testing.T) {

	cases := []struct {
		name                                     string
		sampleHits, sampleSize, popHits, popSize int
	}{
		{"sample exceeds population", 0, 200, 10, 100},
		{"hits exceed population", 0, 10, 200, 100},
		{"zero sample", 0, 0, 10, 100},
		{"zero population hits", 0, 10, 0, 100},
		{"negative sample hits", -1, 10, 10, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Hyper(tc.sampleHits, tc.sampleSize, tc.popHits, tc.popSize)
			require.ErrorIs(t, err, ErrBadParams)
		})
	}
}

func TestScreenProb(t *testing.T) {

	// Every population member is marked, so a sample of 10 always reaches
	// the minimum count.
	certain, err := ScreenProb(10, 20, 20)
	require.NoError(t, err)
	require.InDelta(t, 1.0, certain, 1e-12)

	// A sample smaller than the minimum count can never reach it.
	impossible, err := ScreenProb(5, 20, 40)
	require.NoError(t, err)
	require.Zero(t, impossible)

	// Monotone in the number of marked population members.
	lo, err := ScreenProb(15, 10, 30)
	require.NoError(t, err)
	hi, err := ScreenProb(15, 20, 30)
	require.NoError(t, err)
	require.Greater(t, hi, lo)
	require.GreaterOrEqual(t, lo, 0.0)
	require.LessOrEqual(t, hi, 1.0)
}
