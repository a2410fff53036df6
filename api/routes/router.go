package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/purchasables/api/controllers"
	"github.com/angelmondragon/purchasables/api/middleware"
	"github.com/angelmondragon/purchasables/api/responses"
	"github.com/angelmondragon/purchasables/internal/pricing"
	product "github.com/angelmondragon/purchasables/internal/products"
	purchasable "github.com/angelmondragon/purchasables/internal/purchasables"
	"github.com/angelmondragon/purchasables/pkg/config"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/metrics"
)

// StoreDirectory is the store lookup surface the API needs.
type StoreDirectory interface {
	AllStores(ctx context.Context) ([]models.Store, error)
	ByHandle(ctx context.Context, handle string) (*models.Store, error)
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        controllers.Pinger
	Gatherer     prometheus.Gatherer
	HTTPMetrics  *metrics.HTTPMetrics
	Stores       StoreDirectory
	Purchasables purchasable.Service
	Products     product.Service
	Pricing      *pricing.Engine
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, readinessDeps(deps), logg))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Shopper(logg))

		r.Get("/stores", controllers.StoreList(deps.Stores, logg))

		r.Route("/purchasables", func(r chi.Router) {
			r.Get("/", controllers.PurchasableList(deps.Purchasables, logg))
			r.Post("/", controllers.PurchasableCreate(deps.Purchasables, logg))
			r.Route("/{purchasableId}", func(r chi.Router) {
				r.Get("/", controllers.PurchasableGet(deps.Purchasables, logg))
				r.Put("/", controllers.PurchasableUpdate(deps.Purchasables, logg))
				r.Delete("/", controllers.PurchasableDelete(deps.Purchasables, logg))
				r.Patch("/stores/{storeHandle}", controllers.PurchasableSetStoreValues(deps.Purchasables, logg))
				r.Get("/pricing", controllers.PurchasablePricing(deps.Purchasables, deps.Stores, deps.Pricing, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Post("/", controllers.ProductCreate(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.Products, logg))
		})
	})

	return r
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	out := map[string]controllers.Pinger{}
	if deps.DB != nil {
		out["db"] = deps.DB
	}
	if deps.Redis != nil {
		out["redis"] = deps.Redis
	}
	return out
}
