package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swigepto/swigepto-backend/api/controllers"
	"github.com/swigepto/swigepto-backend/api/routes"
	"github.com/swigepto/swigepto-backend/internal/cart"
	"github.com/swigepto/swigepto-backend/internal/catalog"
	"github.com/swigepto/swigepto-backend/internal/offers"
	"github.com/swigepto/swigepto-backend/internal/orders"
	"github.com/swigepto/swigepto-backend/internal/session"
	"github.com/swigepto/swigepto-backend/pkg/config"
	"github.com/swigepto/swigepto-backend/pkg/db"
	"github.com/swigepto/swigepto-backend/pkg/logger"
	"github.com/swigepto/swigepto-backend/pkg/metrics"
	"github.com/swigepto/swigepto-backend/pkg/redis"
)

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	index, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logg.Error(context.Background(), "failed to load catalog", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

	checks := map[string]controllers.Pinger{}

	var sessions session.Store
	var redisClient *redis.Client
	switch strings.ToLower(cfg.Sessions.Backend) {
	case "redis":
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		sessions, err = session.NewRedisStore(redisClient, cfg.Sessions.TTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create session store", err)
			os.Exit(1)
		}
		checks["redis"] = redisClient
	default:
		sessions = session.NewMemoryStore()
	}

	var repo orders.Repository
	switch strings.ToLower(cfg.Orders.Backend) {
	case "file":
		repo, err = orders.NewFileLog(cfg.Orders.FilePath)
		if err != nil {
			logg.Error(context.Background(), "failed to open order log", err)
			os.Exit(1)
		}
	default:
		dbClient, err := db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		repo, err = orders.NewGormRepository(dbClient.DB())
		if err != nil {
			logg.Error(context.Background(), "failed to create order repository", err)
			os.Exit(1)
		}
		checks["db"] = dbClient
	}

	registryCoupons, err := offers.NewRegistry(offers.DefaultCoupons())
	if err != nil {
		logg.Error(context.Background(), "failed to index coupons", err)
		os.Exit(1)
	}

	pricing := offers.Pricing{
		DeliveryFee:           cfg.Pricing.DeliveryFee,
		FreeDeliveryThreshold: cfg.Pricing.FreeDeliveryThreshold,
	}

	offersService, err := offers.NewService(registryCoupons, sessions, pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(index, sessions, engineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     repo,
		Sessions: sessions,
		Offers:   offersService,
		Metrics:  engineMetrics,
		IDPrefix: cfg.Orders.IDPrefix,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Index:    index,
			Sessions: sessions,
			Cart:     cartService,
			Offers:   offersService,
			Orders:   ordersService,
			Metrics:  engineMetrics,
			Registry: registry,
			Checks:   checks,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
