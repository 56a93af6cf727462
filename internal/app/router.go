package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-wms/meridian/internal/export"
	"github.com/meridian-wms/meridian/internal/masterdata"
	"github.com/meridian-wms/meridian/internal/purchase"
	"github.com/meridian-wms/meridian/internal/receiving"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	PurchaseHandler   *purchase.Handler
	ReceivingHandler  *receiving.Handler
	MasterDataHandler *masterdata.Handler
	ExportHandler     *export.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.PurchaseHandler.MountRoutes(r)
		params.ReceivingHandler.MountRoutes(r)
		params.MasterDataHandler.MountRoutes(r)
		params.ExportHandler.MountRoutes(r)
	})

	return r
}
