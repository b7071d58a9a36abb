package model

import (
	"gonum.org/v1/gonum/mat"
)

// Filter removes rows and columns from an enrichment matrix and returns a
// new matrix; the input is left untouched.
//
// Identifiers in remove are always dropped. When filterBlank is set, rows
// and columns whose values sum to exactly zero are dropped as well, unless
// listed in keep. Explicit removal runs first and keep is only consulted
// for the blank pass, so an identifier in both remove and keep is removed.
//
// Sums are taken over the already-thresholded cell values, so an axis whose
// relationships were all below threshold counts as blank even though raw
// data existed for it.
func Filter(m *Matrix, remove, keep []string, filterBlank bool) *Matrix {
	removeSet := toSet(remove)
	keepSet := toSet(keep)

	rowIdx := selectAxis(m.RowIDs, removeSet)
	colIdx := selectAxis(m.ColIDs, removeSet)

	if filterBlank {
		// Both blank passes look at the matrix as it stands after explicit
		// removal, not at each other's result.
		blankRows := dropBlank(rowIdx, m.RowIDs, keepSet, func(i int) float64 {
			return axisSum(m.Data, i, colIdx, true)
		})
		blankCols := dropBlank(colIdx, m.ColIDs, keepSet, func(j int) float64 {
			return axisSum(m.Data, j, rowIdx, false)
		})
		rowIdx, colIdx = blankRows, blankCols
	}

	out := &Matrix{
		RowIDs: pick(m.RowIDs, rowIdx),
		ColIDs: pick(m.ColIDs, colIdx),
	}
	if len(rowIdx) == 0 || len(colIdx) == 0 {
		return out
	}

	data := mat.NewDense(len(rowIdx), len(colIdx), nil)
	for i, ri := range rowIdx {
		for j, ci := range colIdx {
			data.Set(i, j, m.Data.At(ri, ci))
		}
	}
	out.Data = data
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// selectAxis keeps indices of identifiers not explicitly removed.
func selectAxis(ids []string, removeSet map[string]bool) []int {
	var kept []int
	for i, id := range ids {
		if !removeSet[id] {
			kept = append(kept, i)
		}
	}
	return kept
}

// dropBlank removes zero-sum indices unless their identifier is kept.
func dropBlank(indices []int, ids []string, keepSet map[string]bool, sum func(int) float64) []int {
	var kept []int
	for _, i := range indices {
		if keepSet[ids[i]] || sum(i) != 0.0 {
			kept = append(kept, i)
		}
	}
	return kept
}

// axisSum sums one row (byRow) or one column over the surviving indices of
// the other axis, so explicitly removed cells do not count toward blankness.
func axisSum(data *mat.Dense, i int, other []int, byRow bool) float64 {
	var sum float64
	for _, o := range other {
		if byRow {
			sum += data.At(i, o)
		} else {
			sum += data.At(o, i)
		}
	}
	return sum
}

func pick(ids []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		out = append(out, ids[i])
	}
	return out
}
