package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slabworks/slabstock-backend/api/controllers"
	"github.com/slabworks/slabstock-backend/api/middleware"
	"github.com/slabworks/slabstock-backend/internal/audits"
	"github.com/slabworks/slabstock-backend/internal/costs"
	"github.com/slabworks/slabstock-backend/internal/items"
	"github.com/slabworks/slabstock-backend/internal/masters"
	"github.com/slabworks/slabstock-backend/internal/sales"
	"github.com/slabworks/slabstock-backend/pkg/config"
	"github.com/slabworks/slabstock-backend/pkg/db"
	"github.com/slabworks/slabstock-backend/pkg/logger"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Registry *prometheus.Registry
	Items    items.Service
	Masters  masters.Service
	Costs    costs.Service
	Sales    sales.Service
	Audits   audits.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Actor(p.Logger),
	)

	r.Get("/healthz", controllers.HealthLive(p.Config))
	r.Get("/readyz", controllers.HealthReady(p.Config, p.Logger, p.DB))
	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/items", func(r chi.Router) {
		r.Get("/", controllers.ListItems(p.Items, p.Logger))
		r.Post("/", controllers.CreateItem(p.Items, p.Logger))
		r.Get("/long-stock", controllers.ListLongStockItems(p.Items, p.Logger))
		r.Route("/{itemID}", func(r chi.Router) {
			r.Get("/", controllers.GetItem(p.Items, p.Logger))
			r.Patch("/", controllers.UpdateItem(p.Items, p.Logger))
			r.Delete("/", controllers.DeleteItem(p.Items, p.Logger))
			r.Post("/restore", controllers.RestoreItem(p.Items, p.Logger))
			r.Put("/status", controllers.UpdateItemStatus(p.Items, p.Logger))
			r.Put("/location", controllers.RelocateItem(p.Items, p.Logger))
			r.Get("/costs", controllers.ItemCostSummary(p.Costs, p.Logger))
			r.Post("/sell", controllers.SellItem(p.Sales, p.Logger))
			r.Post("/cancel-sale", controllers.CancelItemSale(p.Sales, p.Logger))
		})
	})

	r.Route("/v1/costs", func(r chi.Router) {
		r.Post("/", controllers.CreateCost(p.Costs, p.Logger))
		r.Patch("/{costID}", controllers.UpdateCost(p.Costs, p.Logger))
		r.Delete("/{costID}", controllers.DeleteCost(p.Costs, p.Logger))
	})

	r.Route("/v1/sales", func(r chi.Router) {
		r.Get("/", controllers.ListSoldItems(p.Sales, p.Logger))
	})

	r.Route("/v1/masters", func(r chi.Router) {
		r.Route("/wood-types", func(r chi.Router) {
			r.Get("/", controllers.ListWoodTypes(p.Masters, p.Logger))
			r.Post("/", controllers.CreateWoodType(p.Masters, p.Logger))
			r.Patch("/{woodTypeID}", controllers.UpdateWoodType(p.Masters, p.Logger))
			r.Delete("/{woodTypeID}", controllers.DeleteWoodType(p.Masters, p.Logger))
		})
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(p.Masters, p.Logger))
			r.Post("/", controllers.CreateSupplier(p.Masters, p.Logger))
			r.Patch("/{supplierID}", controllers.UpdateSupplier(p.Masters, p.Logger))
			r.Delete("/{supplierID}", controllers.DeleteSupplier(p.Masters, p.Logger))
		})
		r.Route("/processors", func(r chi.Router) {
			r.Get("/", controllers.ListProcessors(p.Masters, p.Logger))
			r.Post("/", controllers.CreateProcessor(p.Masters, p.Logger))
			r.Patch("/{processorID}", controllers.UpdateProcessor(p.Masters, p.Logger))
			r.Delete("/{processorID}", controllers.DeleteProcessor(p.Masters, p.Logger))
		})
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.ListLocations(p.Masters, p.Logger))
			r.Post("/", controllers.CreateLocation(p.Masters, p.Logger))
			r.Patch("/{locationID}", controllers.UpdateLocation(p.Masters, p.Logger))
			r.Delete("/{locationID}", controllers.DeleteLocation(p.Masters, p.Logger))
		})
	})

	r.Route("/v1/audits", func(r chi.Router) {
		r.Get("/", controllers.ListAuditHistory(p.Audits, p.Logger))
		r.Post("/", controllers.StartAuditSession(p.Audits, p.Logger))
		r.Get("/active", controllers.ListActiveAuditSessions(p.Audits, p.Logger))
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", controllers.AuditSessionProgress(p.Audits, p.Logger))
			r.Post("/confirm", controllers.ConfirmAuditItem(p.Audits, p.Logger))
			r.Post("/discrepancy", controllers.ReportAuditDiscrepancy(p.Audits, p.Logger))
			r.Post("/pause", controllers.PauseAuditSession(p.Audits, p.Logger))
			r.Post("/resume", controllers.ResumeAuditSession(p.Audits, p.Logger))
			r.Post("/complete", controllers.CompleteAuditSession(p.Audits, p.Logger))
		})
	})

	return r
}
