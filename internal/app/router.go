package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Ramani888/abwa-sub000/internal/catalog"
	"github.com/Ramani888/abwa-sub000/internal/ledger"
	"github.com/Ramani888/abwa-sub000/internal/payment"
	"github.com/Ramani888/abwa-sub000/internal/procurement"
	"github.com/Ramani888/abwa-sub000/internal/sales"
	"github.com/Ramani888/abwa-sub000/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	CatalogHandler     *catalog.Handler
	SalesHandler       *sales.Handler
	ProcurementHandler *procurement.Handler
	PaymentHandler     *payment.Handler
	LedgerHandler      *ledger.Handler
	JobHandler         *jobs.Handler
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
		if params.CatalogHandler != nil {
			params.CatalogHandler.MountRoutes(r)
		}
		if params.SalesHandler != nil {
			r.Route("/orders", params.SalesHandler.MountRoutes)
		}
		if params.ProcurementHandler != nil {
			r.Route("/purchase-orders", params.ProcurementHandler.MountRoutes)
		}
		if params.PaymentHandler != nil {
			r.Route("/payments", params.PaymentHandler.MountRoutes)
		}
		if params.LedgerHandler != nil {
			r.Route("/balances", params.LedgerHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
