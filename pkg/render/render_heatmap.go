// SVG renderer for the heatmap layout. The layout mapper decides what to
// draw; this file only turns it into pixels and text.

package render

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/taslab/cooctable/pkg/model"
)

// Raster scale for the produced figure, pixels per inch.
const dpi = 150.0

var heatmapSVGTemplate *template.Template

func init() {
	svgTmpl := `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<rect width="100%" height="100%" fill="white"/>
{{- range .Rects}}
<rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" fill="{{.Fill}}"/>
{{- end}}
{{- range .Lines}}
<line x1="{{.X1}}" y1="{{.Y1}}" x2="{{.X2}}" y2="{{.Y2}}" stroke="black" stroke-width="{{.W}}"/>
{{- end}}
{{- range .Dots}}
<circle cx="{{.X}}" cy="{{.Y}}" r="{{.R}}" fill="lightgray"/>
{{- end}}
{{- range .Texts}}
<text x="{{.X}}" y="{{.Y}}" font-size="{{.Size}}" font-family="Helvetica, Arial, sans-serif" fill="{{.Fill}}" text-anchor="{{.Anchor}}"{{if .Italic}} font-style="italic"{{end}}{{if .Rotate}} transform="rotate(-90 {{.X}} {{.Y}})"{{end}}>{{.Text}}</text>
{{- end}}
</svg>
`
	heatmapSVGTemplate = template.Must(template.New("heatmap-svg").Parse(svgTmpl))
}

type svgRect struct {
	X, Y, W, H float64
	Fill       string
}

type svgLine struct {
	X1, Y1, X2, Y2, W float64
}

type svgDot struct {
	X, Y, R float64
}

type svgText struct {
	X, Y   float64
	Size   float64
	Text   string
	Fill   string
	Anchor string
	Rotate bool
	Italic bool
}

type svgData struct {
	Width, Height int
	Rects         []svgRect
	Lines         []svgLine
	Dots          []svgDot
	Texts         []svgText
}

// RenderHeatmapSVG draws a layout as a standalone SVG document.
func RenderHeatmapSVG(w io.Writer, lay *Layout) error {
	data := buildSVGData(lay)
	return heatmapSVGTemplate.Execute(w, data)
}

func buildSVGData(lay *Layout) *svgData {
	figW := lay.FigWidth * dpi
	figH := lay.FigHeight * dpi

	data := &svgData{
		Width:  int(math.Round(figW)),
		Height: int(math.Round(figH)),
	}

	// Fractional rects are bottom-origin; SVG is top-origin.
	hmX := lay.Heatmap.Left * figW
	hmW := lay.Heatmap.Width * figW
	hmH := lay.Heatmap.Height * figH
	hmY := (1.0 - lay.Heatmap.Bottom - lay.Heatmap.Height) * figH

	cellW := hmW / float64(lay.NCols)
	cellH := hmH / float64(lay.NRows)

	for _, cell := range lay.Cells {
		x := hmX + float64(cell.Col)*cellW
		y := hmY + float64(cell.Row)*cellH
		data.Rects = append(data.Rects, svgRect{X: x, Y: y, W: cellW, H: cellH, Fill: hexColor(cell.Color)})

		cx := x + cellW/2.0
		cy := y + cellH/2.0
		if cell.ZeroMark {
			data.Dots = append(data.Dots, svgDot{X: cx, Y: cy, R: 1.5})
			continue
		}
		ink := "black"
		if cell.WhiteInk {
			ink = "white"
		}
		data.Texts = append(data.Texts, svgText{
			X: cx, Y: cy + ptToPx(11.0)/3.0, Size: ptToPx(11.0),
			Text: cell.Label, Fill: ink, Anchor: "middle",
		})
	}

	// Thin separating grid over the cells.
	for i := 0; i <= lay.NRows; i++ {
		y := hmY + float64(i)*cellH
		data.Lines = append(data.Lines, svgLine{X1: hmX, Y1: y, X2: hmX + hmW, Y2: y, W: 0.5})
	}
	for j := 0; j <= lay.NCols; j++ {
		x := hmX + float64(j)*cellW
		data.Lines = append(data.Lines, svgLine{X1: x, Y1: hmY, X2: x, Y2: hmY + hmH, W: 0.5})
	}

	for i, label := range lay.RowLabels {
		data.Texts = append(data.Texts, svgText{
			X: hmX - 8.0, Y: hmY + (float64(i)+0.5)*cellH + ptToPx(13.0)/3.0,
			Size: ptToPx(13.0), Text: label, Fill: "black", Anchor: "end",
		})
	}
	for j, label := range lay.ColLabels {
		data.Texts = append(data.Texts, svgText{
			X: hmX + (float64(j)+0.5)*cellW + ptToPx(13.0)/3.0, Y: hmY + hmH + 8.0,
			Size: ptToPx(13.0), Text: label, Fill: "black", Anchor: "end",
			Rotate: true, Italic: true,
		})
	}
	data.Texts = append(data.Texts, svgText{
		X: hmX + hmW/2.0, Y: hmY - ptToPx(16.0),
		Size: ptToPx(16.0), Text: lay.Title, Fill: "black", Anchor: "middle",
	})

	// Color scale bar.
	barX := lay.Bar.Left * figW
	barW := lay.Bar.Width * figW
	barH := lay.Bar.Height * figH
	barY := (1.0 - lay.Bar.Bottom - lay.Bar.Height) * figH

	barCellW := barW / float64(len(lay.BarColors))
	for i, color := range lay.BarColors {
		data.Rects = append(data.Rects, svgRect{
			X: barX + float64(i)*barCellW, Y: barY, W: barCellW, H: barH,
			Fill: hexColor(color),
		})
	}
	for i := 0; i <= len(lay.BarColors); i++ {
		x := barX + float64(i)*barCellW
		data.Lines = append(data.Lines, svgLine{X1: x, Y1: barY, X2: x, Y2: barY + barH, W: 0.5})
	}
	data.Lines = append(data.Lines,
		svgLine{X1: barX, Y1: barY, X2: barX + barW, Y2: barY, W: 0.5},
		svgLine{X1: barX, Y1: barY + barH, X2: barX + barW, Y2: barY + barH, W: 0.5})

	for _, tick := range lay.BarTicks {
		data.Texts = append(data.Texts, svgText{
			X: barX + tick.Frac*barW, Y: barY + barH + ptToPx(12.0)*1.2,
			Size: ptToPx(12.0), Text: tick.Label, Fill: "black", Anchor: "middle",
		})
	}
	data.Texts = append(data.Texts, svgText{
		X: barX + barW/2.0, Y: barY - ptToPx(14.0)/2.0,
		Size: ptToPx(14.0), Text: lay.BarTitle, Fill: "black", Anchor: "middle",
	})

	return data
}

func hexColor(c model.RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	if v < 0.0 {
		v = 0.0
	} else if v > 1.0 {
		v = 1.0
	}
	return int(math.Round(v * 255.0))
}

func ptToPx(pt float64) float64 {
	return pt * dpi / 72.0
}
