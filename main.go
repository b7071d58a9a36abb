package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"path"

	"github.com/joho/godotenv"

	"github.com/taslab/cooctable/internal/util"
	"github.com/taslab/cooctable/logger"
	coocdb "github.com/taslab/cooctable/pkg/db"
	"github.com/taslab/cooctable/pkg/handler"
	"github.com/taslab/cooctable/pkg/handler/request"
	"github.com/taslab/cooctable/pkg/middle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "modernc.org/sqlite"
)

var (
	cooctable_data string
)

func main() {

	// Establish logger
	VERSION := "0.1.0"
	LOG_LEVEL := zapcore.InfoLevel

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	cooctable_data = os.Getenv("COOCTABLE_DATA")

	if cooctable_data == "" {
		logger.Warn("No local environment (COOCTABLE_DATA), using default value (./data)")
		cooctable_data = "./data"
	}

	cooctable_sqlite := path.Join(cooctable_data, "db/cooccurrence.db")

	// Connect to db
	db, _ := sql.Open("sqlite", cooctable_sqlite)

	cooc := coocdb.NewCoocDB(db)
	if err := cooc.InitSchema(context.Background()); err != nil {
		logger.Fatal("Schema init failed", zap.String("error", err.Error()))
	}

	dbctx := &handler.DBContext{
		DB:       db,
		Cooc:     cooc,
		AltNames: loadAltNames(path.Join(cooctable_data, "alt_names.json")),
		Defaults: request.DefaultHeatmapRequest(),
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Open database on", zap.String("DB_LOC", cooctable_sqlite))

	mux := NewRouter(dbctx)

	// Apply middleware
	logging := middle.LoggingMiddleware(logger.L())
	reqid := middle.RequestIDMiddleware(logger.L())
	root := reqid(logging(mux))

	logger.Info("Server starting on :8080...")
	httpErr := http.ListenAndServe("0.0.0.0:8080", root)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}

func NewRouter(dbctx *handler.DBContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Main routes
	mux.HandleFunc("GET /", dbctx.HeatmapPage)
	mux.HandleFunc("GET /heatmap.svg", dbctx.HeatmapSVG)

	// API routes
	mux.HandleFunc("GET /api/v1/health", handler.HealthCheck)
	mux.HandleFunc("GET /api/v1/absmax", dbctx.AbsMaxAPI)

	return mux
}

// loadAltNames reads the optional display-name override mapping. Missing
// file just means no overrides.
func loadAltNames(fpath string) map[string]string {
	if !util.FileExists(fpath) {
		return map[string]string{}
	}

	raw, err := os.ReadFile(fpath)
	if err != nil {
		logger.Warn("Cannot read alt names", zap.String("path", fpath))
		return map[string]string{}
	}

	names := make(map[string]string)
	if err := json.Unmarshal(raw, &names); err != nil {
		logger.Warn("Malformed alt names, ignoring", zap.String("path", fpath))
		return map[string]string{}
	}
	return names
}
