package render

import (
	"html/template"
	"io"
)

var heatmapPageTemplate *template.Template

func init() {
	pageTmpl := `<!DOCTYPE html>
<html>
<head>
	<title>TA system / drug determinant co-occurrence</title>
	<style>
		body { font-family: sans-serif; margin: 1.5rem; }
		.app-header { margin-bottom: 1rem; }
		.app-name { margin: 0; }
		.app-description { color: #444; margin: 0.25rem 0 0 0; }
		.figure img { max-width: 100%; border: 1px solid #ddd; }
		.meta { color: #666; font-size: 0.85rem; margin-top: 0.5rem; }
	</style>
</head>
<body>
	<header class="app-header">
		<h1 class="app-name">Co-occurrence table</h1>
		<p class="app-description">
			over/under-representation of drug resistance determinants among toxin-antitoxin system carriers
		</p>
	</header>
	<div class="figure">
		<img src="{{.FigureURL}}" alt="co-occurrence heatmap"/>
	</div>
	<p class="meta">abs_max (largest finite |log2 ratio| before adjustment): {{printf "%.3f" .AbsMax}}</p>
</body>
</html>
`
	heatmapPageTemplate = template.Must(template.New("heatmap-page").Parse(pageTmpl))
}

type heatmapPageData struct {
	FigureURL string
	AbsMax    float64
}

// RenderHeatmapPage renders the HTML shell that embeds the SVG figure.
func RenderHeatmapPage(w io.Writer, figureURL string, absMax float64) error {
	return heatmapPageTemplate.Execute(w, heatmapPageData{FigureURL: figureURL, AbsMax: absMax})
}
