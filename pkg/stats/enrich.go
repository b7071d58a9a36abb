package stats

import (
	"fmt"
	"math"
)

// Pair holds the raw co-occurrence counts for one (TA system, drug
// resistance determinant) combination. Counts are aggregated once per
// analysis run and never mutated. TACount, DrugCount and Population are
// never zero: only elements observed at least once in a non-empty
// population are modelled. JointCount may be zero.
type Pair struct {
	TA         string `json:"ta"`
	Drug       string `json:"drug"`
	JointCount int    `json:"corr"`
	TACount    int    `json:"ta_count"`
	DrugCount  int    `json:"drug_count"`
	Population int    `json:"tot"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s [%d of %d vs %d of %d]",
		p.TA, p.Drug, p.JointCount, p.TACount, p.DrugCount, p.Population)
}

// EnrichmentScore is the derived per-pair result. When JointCount is zero,
// Ratio and Log2Ratio are -Inf, a sentinel for "never co-occurs" that must
// be resolved before the values are used in arithmetic. Otherwise the sign
// of Ratio and Log2Ratio always agree and |Ratio| >= 1.
type EnrichmentScore struct {
	Ratio        float64 `json:"ratio"`
	Log2Ratio    float64 `json:"log2_ratio"`
	Significance float64 `json:"significance"`
}

// Score computes the signed ratio-of-ratios enrichment for one pair,
// together with its two-tailed hypergeometric significance. The first rate
// is the fraction of TA carriers that also carry the determinant, the
// second is the background rate of the determinant in the whole population.
// Whichever rate dominates sets the sign: positive fold values mean
// over-representation, negative ones under-representation.
//
// Score is pure and keeps no shared state, so pairs may be scored in any
// order or in parallel.
func Score(p Pair) (EnrichmentScore, error) {
	if p.TACount <= 0 || p.DrugCount <= 0 || p.Population <= 0 {
		return EnrichmentScore{}, fmt.Errorf("pair %s: %w", p, ErrBadParams)
	}

	sig, err := Hyper(p.JointCount, p.TACount, p.DrugCount, p.Population)
	if err != nil {
		return EnrichmentScore{}, fmt.Errorf("pair %s: %w", p, err)
	}

	// rate_B is non-zero by the count invariants; rate_A is zero exactly
	// when the pair never co-occurs, which maps to the -Inf sentinel.
	if p.JointCount == 0 {
		return EnrichmentScore{
			Ratio:        math.Inf(-1),
			Log2Ratio:    math.Inf(-1),
			Significance: sig,
		}, nil
	}

	firstRatio := float64(p.JointCount) / float64(p.TACount)
	otherRatio := float64(p.DrugCount) / float64(p.Population)

	var ratio, log2ratio float64
	if firstRatio >= otherRatio {
		ratio = firstRatio / otherRatio
		log2ratio = math.Log2(ratio)
	} else {
		ratio = -(otherRatio / firstRatio)
		log2ratio = -math.Log2(-ratio)
	}

	return EnrichmentScore{
		Ratio:        ratio,
		Log2Ratio:    log2ratio,
		Significance: sig,
	}, nil
}
