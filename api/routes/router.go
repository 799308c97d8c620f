package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swigepto/swigepto-backend/api/controllers"
	"github.com/swigepto/swigepto-backend/api/middleware"
	"github.com/swigepto/swigepto-backend/internal/cart"
	"github.com/swigepto/swigepto-backend/internal/catalog"
	"github.com/swigepto/swigepto-backend/internal/offers"
	"github.com/swigepto/swigepto-backend/internal/orders"
	"github.com/swigepto/swigepto-backend/internal/session"
	"github.com/swigepto/swigepto-backend/pkg/config"
	"github.com/swigepto/swigepto-backend/pkg/logger"
	"github.com/swigepto/swigepto-backend/pkg/metrics"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Index    *catalog.Index
	Sessions session.Store
	Cart     cart.Service
	Offers   offers.Service
	Orders   orders.Service
	Metrics  *metrics.EngineMetrics
	Registry *prometheus.Registry
	// Readiness checks by name; nil values are skipped.
	Checks map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Checks))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionContext(logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/search", controllers.CatalogSearch(deps.Index, deps.Metrics, logg))
			r.Get("/categories/{name}", controllers.CategoryList(deps.Index, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(deps.Cart, deps.Sessions, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Sessions, logg))
			r.Delete("/items/{name}", controllers.CartRemoveItem(deps.Cart, deps.Sessions, logg))
			r.Patch("/items/{name}", controllers.CartUpdateQuantity(deps.Cart, deps.Sessions, logg))
			r.Post("/recipe", controllers.CartAddRecipe(deps.Cart, deps.Sessions, logg))
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.OffersList(deps.Offers, logg))
			r.Post("/apply", controllers.OffersApply(deps.Offers, deps.Sessions, logg))
		})

		r.Get("/delivery", controllers.DeliveryInfo(deps.Orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPlace(deps.Orders, deps.Sessions, logg))
			r.Get("/", controllers.OrderHistory(deps.Orders, cfg.Orders.History, logg))
			r.Get("/{orderId}", controllers.OrderTrack(deps.Orders, logg))
		})
	})

	return r
}
