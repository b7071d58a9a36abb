package request

// HeatmapRequest carries every caller-tunable knob of the analysis and the
// figure. Defaults match the published notebook run.
type HeatmapRequest struct {
	PVal10Th    float64      `json:"pval10_th"` // minimum-count screen threshold
	RatioTh     float64      `json:"ratio_th"`  // |log2 ratio| magnitude threshold
	RatioMax    float64      `json:"ratio_max"` // display ceiling
	Sentinel    SentinelMode `json:"sentinel"`
	Remove      []string     `json:"remove"`       // force-removed row/column ids
	Keep        []string     `json:"keep"`         // ids kept through blank filtering
	FilterBlank bool         `json:"filter_blank"` // drop zero-sum rows/columns
	FigWidth    float64      `json:"fig_width"`    // inches
}

func DefaultHeatmapRequest() HeatmapRequest {
	return HeatmapRequest{
		PVal10Th:    0.05,
		RatioTh:     1.0,
		RatioMax:    6.0,
		Sentinel:    SentinelFixed,
		FilterBlank: true,
		FigWidth:    12.0,
	}
}
