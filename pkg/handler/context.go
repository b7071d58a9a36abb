package handler

// DI for all handlers and models alike.

import (
	"database/sql"

	coocdb "github.com/taslab/cooctable/pkg/db"
	"github.com/taslab/cooctable/pkg/handler/request"
)

type DBContext struct {
	DB       *sql.DB
	Cooc     *coocdb.CoocDB
	AltNames map[string]string // display-name overrides for figure labels
	Defaults request.HeatmapRequest
}
