package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/taslab/cooctable/pkg/model"
)

func testMatrices(t *testing.T) (*model.Matrix, *model.ColorMatrix) {
	t.Helper()

	m := &model.Matrix{
		RowIDs: []string{"mazEF", "relBE"},
		ColIDs: []string{"blaZ", "tetK", "ermC"},
		Data: mat.NewDense(2, 3, []float64{
			2.0, 0.0, -5.0,
			0.5, -6.0, 3.9,
		}),
	}

	colors := &model.ColorMatrix{
		RowIDs: m.RowIDs,
		ColIDs: m.ColIDs,
		Cells:  make([][]model.RGB, 2),
	}
	for i := range colors.Cells {
		colors.Cells[i] = make([]model.RGB, 3)
		for j := range colors.Cells[i] {
			colors.Cells[i][j] = model.ColorFor(m.At(i, j) / 6.0)
		}
	}
	return m, colors
}

var (
	taTotals   = map[string]int{"mazEF": 10, "relBE": 5}
	drugTotals = map[string]int{"blaZ": 8, "tetK": 3, "ermC": 4}
)

func TestNewLayoutGeometry(t *testing.T) {

	m, colors := testMatrices(t)
	lay, err := NewLayout(m, colors, taTotals, drugTotals, nil, DefaultGeometry())
	require.NoError(t, err)

	require.Equal(t, 12.0, lay.FigWidth)
	// axBottom + axTop + usable width scaled by the grid aspect ratio.
	require.InDelta(t, 2.2+1.2+(12.0-2.2-0.3)*2.0/3.0, lay.FigHeight, 1e-12)

	require.InDelta(t, 2.2/12.0, lay.Heatmap.Left, 1e-12)
	require.InDelta(t, 2.2/lay.FigHeight, lay.Heatmap.Bottom, 1e-12)
	require.InDelta(t, 1.0-(2.2+0.3)/12.0, lay.Heatmap.Width, 1e-12)
	require.InDelta(t, 1.0-(1.2+2.2)/lay.FigHeight, lay.Heatmap.Height, 1e-12)
}

func TestNewLayoutCells(t *testing.T) {

	m, colors := testMatrices(t)
	lay, err := NewLayout(m, colors, taTotals, drugTotals, nil, DefaultGeometry())
	require.NoError(t, err)
	require.Len(t, lay.Cells, 6)

	byPos := make(map[[2]int]Cell)
	for _, c := range lay.Cells {
		byPos[[2]int{c.Row, c.Col}] = c
	}

	// Labels carry the magnitude only; direction is in the color.
	require.Equal(t, "2.0", byPos[[2]int{0, 0}].Label)
	require.Equal(t, "5.0", byPos[[2]int{0, 2}].Label)
	require.Equal(t, "3.9", byPos[[2]int{1, 2}].Label)

	// Ink flips to white past the half-scale point.
	require.False(t, byPos[[2]int{0, 0}].WhiteInk)
	require.True(t, byPos[[2]int{0, 2}].WhiteInk)
	require.True(t, byPos[[2]int{1, 1}].WhiteInk)
	require.False(t, byPos[[2]int{1, 2}].WhiteInk)

	// Exact zero is marked, not labelled.
	zero := byPos[[2]int{0, 1}]
	require.True(t, zero.ZeroMark)
	require.Empty(t, zero.Label)
}

func TestNewLayoutAxisLabels(t *testing.T) {

	m, colors := testMatrices(t)
	alt := map[string]string{"relBE": "relBE2"}

	lay, err := NewLayout(m, colors, taTotals, drugTotals, alt, DefaultGeometry())
	require.NoError(t, err)

	require.Equal(t, []string{"mazEF (10)", "relBE2 (5)"}, lay.RowLabels)
	require.Equal(t, []string{"blaZ (8)", "tetK (3)", "ermC (4)"}, lay.ColLabels)
}

func TestNewLayoutScaleBar(t *testing.T) {

	m, colors := testMatrices(t)
	lay, err := NewLayout(m, colors, taTotals, drugTotals, nil, DefaultGeometry())
	require.NoError(t, err)

	require.Len(t, lay.BarColors, 13)
	require.Equal(t, model.RGB{R: 0.0, G: 0.0, B: 1.0}, lay.BarColors[0])
	require.Equal(t, model.RGB{R: 1.0, G: 1.0, B: 1.0}, lay.BarColors[6])
	require.Equal(t, model.RGB{R: 1.0, G: 0.0, B: 0.0}, lay.BarColors[12])

	require.Len(t, lay.BarTicks, 7)
	labels := make([]string, 0, len(lay.BarTicks))
	for _, tick := range lay.BarTicks {
		labels = append(labels, tick.Label)
	}
	require.Equal(t, []string{"-6", "-4", "-2", "0", "2", "4", "6"}, labels)

	// Ticks sit at cell centers: one tick per two bar cells.
	require.InDelta(t, 0.5/13.0, lay.BarTicks[0].Frac, 1e-12)
	require.InDelta(t, 6.5/13.0, lay.BarTicks[3].Frac, 1e-12)
	require.InDelta(t, 12.5/13.0, lay.BarTicks[6].Frac, 1e-12)
}

func TestNewLayoutShapeMismatch(t *testing.T) {

	m, colors := testMatrices(t)
	colors.RowIDs = colors.RowIDs[:1]
	colors.Cells = colors.Cells[:1]

	_, err := NewLayout(m, colors, taTotals, drugTotals, nil, DefaultGeometry())
	require.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestNewLayoutEmptyMatrix(t *testing.T) {

	m := &model.Matrix{}
	colors := &model.ColorMatrix{}

	_, err := NewLayout(m, colors, taTotals, drugTotals, nil, DefaultGeometry())
	require.Error(t, err)
}
