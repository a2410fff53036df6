package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/purchasables/api/routes"
	"github.com/angelmondragon/purchasables/internal/catalog"
	"github.com/angelmondragon/purchasables/internal/categories"
	"github.com/angelmondragon/purchasables/internal/pricing"
	product "github.com/angelmondragon/purchasables/internal/products"
	purchasable "github.com/angelmondragon/purchasables/internal/purchasables"
	"github.com/angelmondragon/purchasables/internal/sales"
	"github.com/angelmondragon/purchasables/internal/stores"
	"github.com/angelmondragon/purchasables/pkg/config"
	"github.com/angelmondragon/purchasables/pkg/db"
	"github.com/angelmondragon/purchasables/pkg/instance"
	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/metrics"
	"github.com/angelmondragon/purchasables/pkg/migrate"
	"github.com/angelmondragon/purchasables/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(registry)

	deps, err := buildDeps(cfg, logg, dbClient, redisClient, pricingMetrics)
	if err != nil {
		return err
	}
	deps.Gatherer = registry
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(logCtx, "api server shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func buildDeps(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, pricingMetrics *metrics.PricingMetrics) (routes.Deps, error) {
	conn := dbClient.DB()

	directory, err := stores.NewDirectory(stores.NewRepository(conn), cfg.Pricing.CurrentStore)
	if err != nil {
		return routes.Deps{}, err
	}
	categoryResolver, err := categories.NewResolver(categories.NewRepository(conn))
	if err != nil {
		return routes.Deps{}, err
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(conn), time.Now)
	if err != nil {
		return routes.Deps{}, err
	}
	var catalogPricing pricing.CatalogPricing = catalogService
	var cached *catalog.CachedService
	if redisClient != nil && cfg.Pricing.CatalogCache {
		cached, err = catalog.NewCachedService(catalog.CachedServiceParams{
			Next:    catalogService,
			Store:   redisClient,
			TTL:     cfg.Pricing.CatalogCacheTTL,
			Metrics: pricingMetrics,
			Logger:  logg,
		})
		if err != nil {
			return routes.Deps{}, err
		}
		catalogPricing = cached
	}

	salesService, err := sales.NewService(sales.NewRepository(conn), time.Now)
	if err != nil {
		return routes.Deps{}, err
	}

	engine, err := pricing.NewEngine(pricing.EngineParams{
		Catalog: catalogPricing,
		Sales:   salesService,
		Stores:  directory,
		Metrics: pricingMetrics,
		Logger:  logg,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	purchasableParams := purchasable.ServiceParams{
		Repo:       purchasable.NewRepository(conn),
		DB:         dbClient,
		Stores:     directory,
		Categories: categoryResolver,
		Logger:     logg,
		Now:        time.Now,
	}
	if cached != nil {
		purchasableParams.Cache = cached
	}
	purchasableService, err := purchasable.NewService(purchasableParams)
	if err != nil {
		return routes.Deps{}, err
	}

	productService, err := product.NewService(product.NewRepository(conn), directory, logg)
	if err != nil {
		return routes.Deps{}, err
	}

	deps := routes.Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Stores:       directory,
		Purchasables: purchasableService,
		Products:     productService,
		Pricing:      engine,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}
	return deps, nil
}
