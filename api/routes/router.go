package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/totofurniture/furnistore-backend/api/controllers"
	customercontrollers "github.com/totofurniture/furnistore-backend/api/controllers/customers"
	furniturecontrollers "github.com/totofurniture/furnistore-backend/api/controllers/furniture"
	ordercontrollers "github.com/totofurniture/furnistore-backend/api/controllers/orders"
	suppliercontrollers "github.com/totofurniture/furnistore-backend/api/controllers/suppliers"
	"github.com/totofurniture/furnistore-backend/api/middleware"
	"github.com/totofurniture/furnistore-backend/internal/customers"
	"github.com/totofurniture/furnistore-backend/internal/dashboard"
	"github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/internal/ledger"
	"github.com/totofurniture/furnistore-backend/internal/orders"
	"github.com/totofurniture/furnistore-backend/internal/suppliers"
	"github.com/totofurniture/furnistore-backend/pkg/config"
	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/metrics"
	"github.com/totofurniture/furnistore-backend/pkg/redis"
)

// NewRouter builds the HTTP surface. redisPinger and idempotencyStore may be
// nil when redis is not configured; writes then skip replay protection.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisPinger redis.Pinger,
	idempotencyStore redis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	furnitureService furniture.Service,
	supplierService suppliers.Service,
	customerService customers.Service,
	orderService orders.Service,
	ledgerService ledger.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if idempotencyStore != nil {
			r.Use(middleware.Idempotency(idempotencyStore, middleware.IdempotencyOptions{
				TTL: cfg.Store.IdempotencyTTL,
			}, logg))
		}

		r.Get("/dashboard", controllers.DashboardSummary(dashboardService, logg))

		mountFurniture(r, furnitureService, logg)
		mountSuppliers(r, supplierService, logg)
		mountCustomers(r, customerService, logg)
		mountOrders(r, orderService, ledgerService, logg)
	})

	return r
}

func mountFurniture(r chi.Router, svc furniture.Service, logg *logger.Logger) {
	r.Route("/furniture", func(r chi.Router) {
		r.Get("/", furniturecontrollers.List(svc, logg))
		r.Get("/top-selling", furniturecontrollers.TopSelling(svc, logg))
		r.Get("/slug/{slug}", furniturecontrollers.GetBySlug(svc, logg))
		r.Get("/{id}", furniturecontrollers.Get(svc, logg))
		r.Delete("/{id}", furniturecontrollers.Delete(svc, logg))
		r.Get("/{id}/quote", furniturecontrollers.Quote(svc, logg))
		r.Post("/{id}/refurbish", furniturecontrollers.Refurbish(svc, logg))
		r.Put("/{id}/supplier", furniturecontrollers.AssignSupplier(svc, logg))
	})

	presets := map[enums.FurnitureKind]map[string]func(*http.Request) (furniture.Filter, error){
		enums.FurnitureKindBed: {
			"/premium": furniturecontrollers.Static(furniture.PremiumBeds),
			"/storage": furniturecontrollers.Static(furniture.StorageBeds),
		},
		enums.FurnitureKindChair: {
			"/office": furniturecontrollers.Static(furniture.OfficeChairs),
			"/dining": furniturecontrollers.Static(furniture.DiningChairs),
		},
		enums.FurnitureKindSofa: {
			"/luxury":      furniturecontrollers.Static(furniture.LuxurySofas),
			"/convertible": furniturecontrollers.Static(furniture.ConvertibleSofas),
			"/recliners":   furniturecontrollers.Static(furniture.ReclinerSofas),
		},
		enums.FurnitureKindTables: {
			"/dining": furniturecontrollers.DiningTablesPreset,
			"/coffee": furniturecontrollers.Static(furniture.CoffeeTables),
		},
	}
	collections := map[enums.FurnitureKind]string{
		enums.FurnitureKindBed:    "/beds",
		enums.FurnitureKindChair:  "/chairs",
		enums.FurnitureKindSofa:   "/sofas",
		enums.FurnitureKindTables: "/tables",
		enums.FurnitureKindMisc:   "/misc",
	}

	for _, kind := range enums.FurnitureKinds() {
		r.Route(collections[kind], func(r chi.Router) {
			r.Get("/", furniturecontrollers.ListVariant(kind, svc, logg))
			r.Post("/", furniturecontrollers.Create(kind, svc, logg))
			for path, preset := range presets[kind] {
				r.Get(path, furniturecontrollers.Preset(preset, svc, logg))
			}
			r.Put("/{id}", furniturecontrollers.Update(kind, svc, logg))

			switch kind {
			case enums.FurnitureKindChair:
				r.Get("/{id}/maintenance", furniturecontrollers.ChairMaintenance(svc, logg))
			case enums.FurnitureKindSofa:
				r.Get("/{id}/care", furniturecontrollers.SofaCare(svc, logg))
			case enums.FurnitureKindTables:
				r.Get("/{id}/accessories", furniturecontrollers.TableAccessories(svc, logg))
			case enums.FurnitureKindMisc:
				r.Get("/{id}/category-suggestion", furniturecontrollers.MiscCategorySuggestion(svc, logg))
				r.Put("/{id}/attributes/{name}", furniturecontrollers.SetMiscAttribute(svc, logg))
				r.Delete("/{id}/attributes/{name}", furniturecontrollers.RemoveMiscAttribute(svc, logg))
				r.Put("/{id}/modifiers/{name}", furniturecontrollers.SetMiscPriceModifier(svc, logg))
				r.Delete("/{id}/modifiers/{name}", furniturecontrollers.RemoveMiscPriceModifier(svc, logg))
			}
		})
	}
}

func mountSuppliers(r chi.Router, svc suppliers.Service, logg *logger.Logger) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", suppliercontrollers.List(svc, logg))
		r.Post("/", suppliercontrollers.Create(svc, logg))
		r.Get("/manufacturers", suppliercontrollers.Preset(suppliers.Manufacturers, svc, logg))
		r.Get("/active", suppliercontrollers.Preset(suppliers.ActiveSuppliers, svc, logg))
		r.Post("/hold", suppliercontrollers.Hold(svc, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", suppliercontrollers.Get(svc, logg))
			r.Put("/", suppliercontrollers.Update(svc, logg))
			r.Delete("/", suppliercontrollers.Delete(svc, logg))
			r.Get("/score", suppliercontrollers.Score(svc, logg))
			r.Get("/furniture", suppliercontrollers.Furniture(svc, logg))
			r.Post("/order-total", suppliercontrollers.OrderTotal(svc, logg))
			r.Get("/service-check", suppliercontrollers.ServiceCheck(svc, logg))
			r.Post("/wood-types/{wood}", suppliercontrollers.AddWoodType(svc, logg))
			r.Delete("/wood-types/{wood}", suppliercontrollers.RemoveWoodType(svc, logg))
			r.Post("/specialties/{specialty}", suppliercontrollers.AddSpecialty(svc, logg))
			r.Delete("/specialties/{specialty}", suppliercontrollers.RemoveSpecialty(svc, logg))
			r.Post("/service-cities/{city}", suppliercontrollers.AddServiceCity(svc, logg))
			r.Delete("/service-cities/{city}", suppliercontrollers.RemoveServiceCity(svc, logg))
		})
	})
}

func mountCustomers(r chi.Router, svc customers.Service, logg *logger.Logger) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", customercontrollers.List(svc, logg))
		r.Post("/", customercontrollers.Create(svc, logg))
		r.Get("/vip", customercontrollers.VIPs(svc, logg))
		r.Post("/inactivity-sweep", customercontrollers.InactivitySweep(svc, logg))
		r.Post("/vip-sweep", customercontrollers.VIPSweep(svc, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", customercontrollers.Get(svc, logg))
			r.Put("/", customercontrollers.Update(svc, logg))
			r.Delete("/", customercontrollers.Delete(svc, logg))
			r.Get("/loyalty", customercontrollers.Loyalty(svc, logg))
			r.Post("/vip-upgrade", customercontrollers.UpgradeVIP(svc, logg))
		})
	})
}

func mountOrders(r chi.Router, svc orders.Service, history ledger.Service, logg *logger.Logger) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", ordercontrollers.List(svc, logg))
		r.Post("/", ordercontrollers.Create(svc, logg))
		r.Get("/pending", ordercontrollers.Preset(orders.PendingOrders, svc, logg))
		r.Get("/pending-payments", ordercontrollers.Preset(orders.PendingPayments, svc, logg))
		r.Get("/overdue", ordercontrollers.Overdue(svc, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", ordercontrollers.Get(svc, logg))
			r.Put("/", ordercontrollers.Update(svc, logg))
			r.Delete("/", ordercontrollers.Delete(svc, logg))
			r.Post("/items", ordercontrollers.AddItem(svc, logg))
			r.Delete("/items/{furnitureId}", ordercontrollers.RemoveItem(svc, logg))
			r.Patch("/status", ordercontrollers.UpdateStatus(svc, logg))
			r.Post("/payments", ordercontrollers.ApplyPayment(svc, logg))
			r.Post("/installments", ordercontrollers.PlanInstallments(svc, logg))
			r.Get("/ledger", ordercontrollers.Ledger(svc, history, logg))
		})
	})
}
