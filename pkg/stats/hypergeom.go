// Hypergeometric tail probabilities for the co-occurrence analysis.

package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// ErrBadParams marks a caller contract violation in the distribution
// parameters, e.g. a sample larger than the population.
var ErrBadParams = errors.New("invalid hypergeometric parameters")

// minScreenHits is the minimum occurrence count used by the pre-filter
// screen, see ScreenProb.
const minScreenHits = 10

// logPMF returns log P(X = k) for a hypergeometric distribution drawing
// sampleSize items from a population of popSize with popHits marked items.
// k must lie within the support.
func logPMF(k, sampleSize, popHits, popSize int) float64 {
	return combin.LogGeneralizedBinomial(float64(popHits), float64(k)) +
		combin.LogGeneralizedBinomial(float64(popSize-popHits), float64(sampleSize-k)) -
		combin.LogGeneralizedBinomial(float64(popSize), float64(sampleSize))
}

// support returns the smallest and largest attainable counts.
func support(sampleSize, popHits, popSize int) (lo, hi int) {
	lo = sampleSize + popHits - popSize
	if lo < 0 {
		lo = 0
	}
	hi = sampleSize
	if popHits < hi {
		hi = popHits
	}
	return lo, hi
}

func checkParams(sampleSize, popHits, popSize int) error {
	if sampleSize <= 0 || popHits <= 0 || popSize <= 0 {
		return ErrBadParams
	}
	if sampleSize > popSize || popHits > popSize {
		return ErrBadParams
	}
	return nil
}

// cdf returns P(X <= k).
func cdf(k, sampleSize, popHits, popSize int) float64 {
	lo, hi := support(sampleSize, popHits, popSize)
	if k < lo {
		return 0.0
	}
	if k >= hi {
		return 1.0
	}
	var sum float64
	for i := lo; i <= k; i++ {
		sum += math.Exp(logPMF(i, sampleSize, popHits, popSize))
	}
	if sum > 1.0 {
		sum = 1.0
	}
	return sum
}

// sf returns P(X >= k).
func sf(k, sampleSize, popHits, popSize int) float64 {
	lo, hi := support(sampleSize, popHits, popSize)
	if k <= lo {
		return 1.0
	}
	if k > hi {
		return 0.0
	}
	var sum float64
	for i := k; i <= hi; i++ {
		sum += math.Exp(logPMF(i, sampleSize, popHits, popSize))
	}
	if sum > 1.0 {
		sum = 1.0
	}
	return sum
}

// Hyper returns the two-tailed significance of observing sampleHits
// co-occurrences in a sample of sampleSize, given popHits marked assemblies
// in a population of popSize. Whichever of CDF and SF is lower is returned;
// the value is negative for the CDF (under-representation) and positive for
// the SF (over-representation). Callers compare the absolute value against a
// threshold and use the sign only diagnostically.
//
// sampleHits at the edge of the support (0 or sampleSize) is valid and
// returns the boundary probability.
func Hyper(sampleHits, sampleSize, popHits, popSize int) (float64, error) {
	if err := checkParams(sampleSize, popHits, popSize); err != nil {
		return 0, err
	}
	if sampleHits < 0 {
		return 0, ErrBadParams
	}

	prob_1 := cdf(sampleHits, sampleSize, popHits, popSize)
	prob_2 := sf(sampleHits, sampleSize, popHits, popSize)

	if prob_1 <= prob_2 {
		return -prob_1, nil
	}
	return prob_2, nil
}

// ScreenProb returns the probability of at least 10 occurrences of a class
// in a sample of sampleSize, given popHits class members in a population of
// popSize. Pairs are screened against this before enrichment scoring, so
// that rarely attainable counts never reach the matrix.
func ScreenProb(sampleSize, popHits, popSize int) (float64, error) {
	if err := checkParams(sampleSize, popHits, popSize); err != nil {
		return 0, err
	}
	return sf(minScreenHits, sampleSize, popHits, popSize), nil
}
