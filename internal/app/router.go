package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/quotedesk/quotedesk/internal/costs"
	"github.com/quotedesk/quotedesk/internal/files"
	"github.com/quotedesk/quotedesk/internal/inventory"
	"github.com/quotedesk/quotedesk/internal/masterdata/products"
	"github.com/quotedesk/quotedesk/internal/observability"
	"github.com/quotedesk/quotedesk/internal/sales/customers"
	"github.com/quotedesk/quotedesk/internal/sales/proposals"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
	"github.com/quotedesk/quotedesk/internal/sales/reps"
	"github.com/quotedesk/quotedesk/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	CustomersHandler  *customers.Handler
	RepsHandler       *reps.Handler
	QuotationsHandler *quotations.Handler
	ProposalsHandler  *proposals.Handler
	ProductsHandler   *products.Handler
	CostsHandler      *costs.Handler
	FilesHandler      *files.Handler
	InventoryHandler  *inventory.Handler
	ReportHandler     *report.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with QuoteDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.CustomersHandler.MountRoutes(r)
	params.RepsHandler.MountRoutes(r)
	params.ProductsHandler.MountRoutes(r)
	params.InventoryHandler.MountRoutes(r)
	params.ProposalsHandler.MountRoutes(r)
	params.CostsHandler.MountRoutes(r)
	params.FilesHandler.MountRoutes(r)
	params.ReportHandler.MountRoutes(r)

	// The quotation subtree is shared: costing, attachments and
	// rendering all hang routes off /quotations/{id}.
	r.Route("/quotations", func(r chi.Router) {
		params.QuotationsHandler.MountRoutes(r)
		params.CostsHandler.MountQuotationRoutes(r)
		params.FilesHandler.MountQuotationRoutes(r)
		params.ReportHandler.MountQuotationRoutes(r)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
