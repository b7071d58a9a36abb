package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taslab/cooctable/logger"
	coocdb "github.com/taslab/cooctable/pkg/db"
	"github.com/taslab/cooctable/pkg/handler/request"
	"github.com/taslab/cooctable/pkg/model"
	"github.com/taslab/cooctable/pkg/render"
	"go.uber.org/zap"
)

// heatmapResult is the end of the statistical pipeline, ready for layout.
type heatmapResult struct {
	Matrix *model.Matrix
	Colors *model.ColorMatrix
	AbsMax float64
}

// buildHeatmap runs the whole pipeline for one request: load counts, screen
// and score every pair, pivot into the ordered matrix, filter, and align
// the color matrix with the filtered result.
func (dbctx *DBContext) buildHeatmap(r *http.Request, req request.HeatmapRequest) (*heatmapResult, error) {
	pairs, taCount, drugCount, err := dbctx.Cooc.LoadPairs(r.Context())
	if err != nil {
		return nil, err
	}

	rows, err := model.ScoreRows(pairs)
	if err != nil {
		return nil, err
	}

	matrix, colors, absMax, err := model.Build(rows, taCount, drugCount, model.BuildOptions{
		PVal10Th: req.PVal10Th,
		RatioTh:  req.RatioTh,
		RatioMax: req.RatioMax,
		Adjust:   req.Sentinel == request.SentinelAdjusted,
	})
	if err != nil {
		return nil, err
	}

	filtered := model.Filter(matrix, req.Remove, req.Keep, req.FilterBlank)
	aligned := colors.Align(filtered.RowIDs, filtered.ColIDs)

	return &heatmapResult{Matrix: filtered, Colors: aligned, AbsMax: absMax}, nil
}

func (dbctx *DBContext) layoutFor(res *heatmapResult, req request.HeatmapRequest, taCount, drugCount map[string]int) (*render.Layout, error) {
	geom := render.DefaultGeometry()
	geom.FigWidth = req.FigWidth
	geom.RatioMax = req.RatioMax
	return render.NewLayout(res.Matrix, res.Colors, taCount, drugCount, dbctx.AltNames, geom)
}

// HeatmapSVG serves the rendered figure.
func (dbctx *DBContext) HeatmapSVG(w http.ResponseWriter, r *http.Request) {

	req := parseHeatmapRequest(r.URL.Query(), dbctx.Defaults)

	res, err := dbctx.buildHeatmap(r, req)
	if err != nil {
		logger.Error("Heatmap pipeline failed", zap.String("error", err.Error()))
		http.Error(w, "heatmap pipeline failed", http.StatusInternalServerError)
		return
	}

	// Axis totals annotate the tick labels.
	taCount, err := dbctx.Cooc.FeatureTotals(r.Context(), coocdb.ClassTA)
	if err != nil {
		http.Error(w, "totals unavailable", http.StatusInternalServerError)
		return
	}
	drugCount, err := dbctx.Cooc.FeatureTotals(r.Context(), coocdb.ClassDrug)
	if err != nil {
		http.Error(w, "totals unavailable", http.StatusInternalServerError)
		return
	}

	lay, err := dbctx.layoutFor(res, req, taCount, drugCount)
	if err != nil {
		logger.Error("Layout failed", zap.String("error", err.Error()))
		http.Error(w, "layout failed", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.RenderHeatmapSVG(w, lay); err != nil {
		logger.Error("SVG rendering failed", zap.String("error", err.Error()))
	}
}

// HeatmapPage serves the HTML shell embedding the figure.
func (dbctx *DBContext) HeatmapPage(w http.ResponseWriter, r *http.Request) {

	req := parseHeatmapRequest(r.URL.Query(), dbctx.Defaults)

	res, err := dbctx.buildHeatmap(r, req)
	if err != nil {
		logger.Error("Heatmap pipeline failed", zap.String("error", err.Error()))
		http.Error(w, "heatmap pipeline failed", http.StatusInternalServerError)
		return
	}

	figureURL := "/heatmap.svg"
	if r.URL.RawQuery != "" {
		figureURL += "?" + r.URL.RawQuery
	}

	if err := render.RenderHeatmapPage(w, figureURL, res.AbsMax); err != nil {
		logger.Error("Page rendering failed", zap.String("error", err.Error()))
	}
}

type absMaxResponse struct {
	AbsMax float64 `json:"abs_max"`
}

// AbsMaxAPI returns the companion scalar for tuning the sentinel
// adjustment against the observed finite ratios.
func (dbctx *DBContext) AbsMaxAPI(w http.ResponseWriter, r *http.Request) {

	req := parseHeatmapRequest(r.URL.Query(), dbctx.Defaults)

	res, err := dbctx.buildHeatmap(r, req)
	if err != nil {
		http.Error(w, "heatmap pipeline failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(absMaxResponse{AbsMax: res.AbsMax})
}

// parseHeatmapRequest fills a request from query parameters, falling back
// to the configured defaults. Malformed numbers keep the default rather
// than failing the whole figure.
func parseHeatmapRequest(q url.Values, defaults request.HeatmapRequest) request.HeatmapRequest {
	req := defaults

	req.PVal10Th = floatParam(q, "pval10_th", req.PVal10Th)
	req.RatioTh = floatParam(q, "ratio_th", req.RatioTh)
	req.RatioMax = floatParam(q, "ratio_max", req.RatioMax)
	req.FigWidth = floatParam(q, "fig_width", req.FigWidth)

	if v := q.Get("adjust"); v != "" {
		req.Sentinel = request.NewSentinelMode(v)
	}
	if v := q.Get("filter_blank"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			req.FilterBlank = b
		}
	}
	req.Remove = listParam(q, "remove")
	req.Keep = listParam(q, "keep")

	return req
}

func floatParam(q url.Values, key string, fallback float64) float64 {
	v := q.Get(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func listParam(q url.Values, key string) []string {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
