// Reshaping of scored co-occurrence pairs into the final heatmap matrices.

package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/taslab/cooctable/pkg/stats"
)

// Row is one long-format entry of the scored table: a pair, its enrichment
// score and the minimum-count screen probability computed for the pair's
// drug determinant against the TA-carrier sample.
type Row struct {
	Pair   stats.Pair
	Score  stats.EnrichmentScore
	PVal10 float64
}

// RGB is a color with channels in the 0.0 to 1.0 range.
type RGB struct {
	R, G, B float64
}

// Matrix is the pivoted enrichment table: TA systems as rows, drug
// resistance determinants as columns, clamped log2 ratio-of-ratios as cell
// values. Absent pairs are zero. A Matrix is never mutated after creation;
// filtering produces a new one.
type Matrix struct {
	RowIDs []string
	ColIDs []string
	Data   *mat.Dense // nil when either axis is empty
}

// ColorMatrix mirrors a Matrix cell-for-cell with mapped colors.
type ColorMatrix struct {
	RowIDs []string
	ColIDs []string
	Cells  [][]RGB
}

// BuildOptions control thresholding, sentinel resolution and clamping.
type BuildOptions struct {
	// PVal10Th zeroes any row whose screen probability falls below it.
	PVal10Th float64
	// RatioTh zeroes any row whose absolute log2 ratio falls below it.
	RatioTh float64
	// RatioMax is the display ceiling: values are clamped to +-RatioMax and
	// colors are normalised against it. It also fills "never co-occurs"
	// sentinels when Adjust is off.
	RatioMax float64
	// Adjust fills sentinels with log2 of the largest finite absolute log2
	// ratio instead of RatioMax, damping pairs that never co-occur so they
	// cannot dominate the color scale.
	Adjust bool
}

// At returns the cell value for row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.Data.At(i, j)
}

// NumRows and NumCols report the matrix shape.
func (m *Matrix) NumRows() int { return len(m.RowIDs) }
func (m *Matrix) NumCols() int { return len(m.ColIDs) }

// ColorFor maps a ratio normalised to the -1.0 to 1.0 range onto the
// blue-white-red scale: zero is white, positive values shade toward red,
// negative ones toward blue, saturating at the range limits.
func ColorFor(ratio float64) RGB {
	switch {
	case ratio == 0.0:
		return RGB{1.0, 1.0, 1.0}
	case ratio > 0.0:
		return RGB{1.0, 1.0 - ratio, 1.0 - ratio}
	default:
		return RGB{1.0 + ratio, 1.0 + ratio, 1.0}
	}
}

// Build pivots the scored long-format rows into an ordered enrichment
// matrix plus its color matrix.
//
// The transform is lossy on purpose: rows failing the screen or magnitude
// thresholds have their log2 ratio forced to zero and the original score is
// not carried any further. -Inf sentinels are then replaced (see
// BuildOptions), remaining values clamped to +-RatioMax, and the matrix
// axes ordered by descending population totals from taCount and drugCount,
// ties keeping their input order. The returned absMax is the largest finite
// absolute log2 ratio seen before sentinel resolution, for caller-side
// tuning of the adjustment mode.
func Build(rows []Row, taCount, drugCount map[string]int, opts BuildOptions) (*Matrix, *ColorMatrix, float64, error) {
	if len(rows) == 0 {
		return nil, nil, 0, fmt.Errorf("no scored rows to pivot")
	}

	values := make([]float64, len(rows))
	for i, row := range rows {
		v := row.Score.Log2Ratio
		// abs(-Inf) passes the magnitude threshold, so sentinels are only
		// zeroed here when they fail the screen.
		if math.Abs(row.PVal10) < opts.PVal10Th || math.Abs(v) < opts.RatioTh {
			v = 0.0
		}
		values[i] = v
	}

	absMax := 0.0
	for _, v := range values {
		if math.IsInf(v, -1) {
			continue
		}
		if math.Abs(v) > absMax {
			absMax = math.Abs(v)
		}
	}

	adjMax := opts.RatioMax
	if opts.Adjust {
		adjMax = math.Log2(absMax)
	}
	for i, v := range values {
		if math.IsInf(v, -1) {
			v = -adjMax
		}
		values[i] = clamp(v, opts.RatioMax)
	}

	rowIDs := orderAxis(rowKeys(rows), taCount)
	colIDs := orderAxis(colKeys(rows), drugCount)

	rowIdx := indexOf(rowIDs)
	colIdx := indexOf(colIDs)

	data := mat.NewDense(len(rowIDs), len(colIDs), nil)
	for i, row := range rows {
		data.Set(rowIdx[row.Pair.TA], colIdx[row.Pair.Drug], values[i])
	}

	matrix := &Matrix{RowIDs: rowIDs, ColIDs: colIDs, Data: data}

	colors := &ColorMatrix{RowIDs: rowIDs, ColIDs: colIDs}
	colors.Cells = make([][]RGB, len(rowIDs))
	for i := range rowIDs {
		colors.Cells[i] = make([]RGB, len(colIDs))
		for j := range colIDs {
			colors.Cells[i][j] = ColorFor(data.At(i, j) / opts.RatioMax)
		}
	}

	return matrix, colors, absMax, nil
}

// clamp bounds v to +-ceiling, preserving sign. Applying it twice with the
// same ceiling is a no-op.
func clamp(v, ceiling float64) float64 {
	if v > ceiling {
		return ceiling
	}
	if v < -ceiling {
		return -ceiling
	}
	return v
}

// rowKeys returns TA identifiers in order of first appearance.
func rowKeys(rows []Row) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		if !seen[row.Pair.TA] {
			seen[row.Pair.TA] = true
			keys = append(keys, row.Pair.TA)
		}
	}
	return keys
}

// colKeys returns drug identifiers in order of first appearance.
func colKeys(rows []Row) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		if !seen[row.Pair.Drug] {
			seen[row.Pair.Drug] = true
			keys = append(keys, row.Pair.Drug)
		}
	}
	return keys
}

// orderAxis sorts identifiers by descending population total. The sort is
// stable so identifiers with equal totals keep their relative input order.
func orderAxis(ids []string, totals map[string]int) []string {
	ordered := make([]string, len(ids))
	copy(ordered, ids)
	sort.SliceStable(ordered, func(i, j int) bool {
		return totals[ordered[i]] > totals[ordered[j]]
	})
	return ordered
}

func indexOf(ids []string) map[string]int {
	idx := make(map[string]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

// Align returns a copy of the color matrix restricted to the given row and
// column identifiers, in the given order. Used after filtering to keep the
// color matrix congruent with the filtered value matrix.
func (c *ColorMatrix) Align(rowIDs, colIDs []string) *ColorMatrix {
	rowIdx := indexOf(c.RowIDs)
	colIdx := indexOf(c.ColIDs)

	out := &ColorMatrix{RowIDs: rowIDs, ColIDs: colIDs}
	out.Cells = make([][]RGB, len(rowIDs))
	for i, rid := range rowIDs {
		out.Cells[i] = make([]RGB, len(colIDs))
		for j, cid := range colIDs {
			out.Cells[i][j] = c.Cells[rowIdx[rid]][colIdx[cid]]
		}
	}
	return out
}
