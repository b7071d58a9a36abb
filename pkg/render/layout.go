// Figure geometry for the co-occurrence heatmap. Everything here is pure
// layout over already-finalised matrices; drawing happens in the SVG
// renderer.

package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taslab/cooctable/pkg/model"
)

// ErrShapeMismatch signals value and color matrices of different shapes, a
// precondition violation.
var ErrShapeMismatch = errors.New("value and color matrices have mismatched shapes")

// Geometry are the caller-tunable figure parameters. Lengths are in inches,
// bar offsets are fractions of the whole figure.
type Geometry struct {
	FigWidth  float64 `json:"fig_width"`
	AxLeft    float64 `json:"ax_left"`
	AxRight   float64 `json:"ax_right"`
	AxTop     float64 `json:"ax_top"`
	AxBottom  float64 `json:"ax_bottom"`
	BarCount  int     `json:"bar_count"` // cells in the color scale bar
	BarScale  float64 `json:"bar_scale"`
	BarLeft   float64 `json:"bar_left"`
	BarBottom float64 `json:"bar_bottom"`
	RatioMax  float64 `json:"ratio_max"` // must match the build ceiling
}

// DefaultGeometry mirrors the figure parameters of the published analysis.
func DefaultGeometry() Geometry {
	return Geometry{
		FigWidth:  12.0,
		AxLeft:    2.2,
		AxRight:   0.3,
		AxTop:     1.2,
		AxBottom:  2.2,
		BarCount:  13,
		BarScale:  1.5,
		BarLeft:   0.70,
		BarBottom: 0.08,
		RatioMax:  6.0,
	}
}

// Rect is an axes placement as fractions of the figure, bottom-left origin.
type Rect struct {
	Left, Bottom, Width, Height float64
}

// Cell is one heatmap cell. Nonzero cells carry the absolute enrichment as
// a label; exactly-zero cells get a small marker instead, so "no signal" is
// distinguishable from a value that merely rounds to zero.
type Cell struct {
	Row, Col int
	Color    model.RGB
	Label    string
	WhiteInk bool // label ink flips to white on saturated cells
	ZeroMark bool
}

// Tick is one legend tick: position along the bar (0..1) plus its label in
// display-ceiling units.
type Tick struct {
	Frac  float64
	Label string
}

// Layout is the complete drawing plan consumed by the renderer.
type Layout struct {
	FigWidth  float64 // inches
	FigHeight float64

	Heatmap      Rect
	NRows, NCols int
	Cells        []Cell
	RowLabels    []string
	ColLabels    []string
	Title        string

	Bar       Rect
	BarColors []model.RGB
	BarTicks  []Tick
	BarTitle  string
}

// NewLayout lays out the final heatmap figure: a grid of colored cells with
// value labels, tick labels annotated with each feature's population total,
// and a separate color scale bar mapping the normalised scale back to log2
// units. The figure height is derived from the width so cells stay square.
func NewLayout(m *model.Matrix, colors *model.ColorMatrix, taCount, drugCount map[string]int,
	altNames map[string]string, geom Geometry) (*Layout, error) {

	nrows, ncols := m.NumRows(), m.NumCols()
	if nrows == 0 || ncols == 0 {
		return nil, fmt.Errorf("empty matrix, nothing to lay out")
	}
	if len(colors.RowIDs) != nrows || len(colors.ColIDs) != ncols {
		return nil, ErrShapeMismatch
	}
	for _, row := range colors.Cells {
		if len(row) != ncols {
			return nil, ErrShapeMismatch
		}
	}

	figHeight := geom.AxBottom + geom.AxTop +
		(geom.FigWidth-geom.AxLeft-geom.AxRight)*float64(nrows)/float64(ncols)

	heatmap := Rect{
		Left:   geom.AxLeft / geom.FigWidth,
		Bottom: geom.AxBottom / figHeight,
		Width:  1.0 - (geom.AxLeft+geom.AxRight)/geom.FigWidth,
		Height: 1.0 - (geom.AxTop+geom.AxBottom)/figHeight,
	}

	lay := &Layout{
		FigWidth:  geom.FigWidth,
		FigHeight: figHeight,
		Heatmap:   heatmap,
		NRows:     nrows,
		NCols:     ncols,
		Title:     "Occurrence rate ratio of drug determinants and TA systems",
		BarTitle:  "Ratio (log2)",
	}

	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			cell := Cell{Row: i, Col: j, Color: colors.Cells[i][j]}
			absVal := math.Abs(m.At(i, j))
			if absVal != 0.0 {
				cell.Label = fmt.Sprintf("%0.1f", absVal)
				cell.WhiteInk = absVal > geom.RatioMax/2.0+1.0
			} else {
				cell.ZeroMark = true
			}
			lay.Cells = append(lay.Cells, cell)
		}
	}

	for _, ta := range m.RowIDs {
		lay.RowLabels = append(lay.RowLabels, fmt.Sprintf("%s (%d)", displayName(altNames, ta), taCount[ta]))
	}
	for _, drug := range m.ColIDs {
		lay.ColLabels = append(lay.ColLabels, fmt.Sprintf("%s (%d)", displayName(altNames, drug), drugCount[drug]))
	}

	lay.Bar = Rect{
		Left:   geom.BarLeft,
		Bottom: geom.BarBottom,
		Width:  heatmap.Width / float64(ncols) * float64(geom.BarCount) * geom.BarScale,
		Height: heatmap.Height / float64(nrows) * geom.BarScale,
	}
	for _, r := range linspace(-1.0, 1.0, geom.BarCount) {
		lay.BarColors = append(lay.BarColors, model.ColorFor(r))
	}

	// Evenly spaced integer ticks from -RatioMax to +RatioMax, one per two
	// bar cells.
	nTicks := (geom.BarCount-1)/2 + 1
	tickVals := linspace(-geom.RatioMax, geom.RatioMax, nTicks)
	tickPos := linspace(0.0, float64(geom.BarCount-1), nTicks)
	for i := 0; i < nTicks; i++ {
		lay.BarTicks = append(lay.BarTicks, Tick{
			Frac:  (math.Round(tickPos[i]) + 0.5) / float64(geom.BarCount),
			Label: fmt.Sprintf("%d", int(math.Round(tickVals[i]))),
		})
	}

	return lay, nil
}

func displayName(altNames map[string]string, name string) string {
	if alt, ok := altNames[name]; ok {
		return alt
	}
	return name
}

func linspace(from, to float64, n int) []float64 {
	if n == 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}
