package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/api"
	cartapp "github.com/hoterry/whatsdish-mobile-sub001/internal/cart/app"
	catalogapp "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/app"
	catalogrest "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/infra/rest"
	checkoutapp "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/app"
	checkoutadapter "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/infra/adapter"
	orderapp "github.com/hoterry/whatsdish-mobile-sub001/internal/order/app"
	orderpg "github.com/hoterry/whatsdish-mobile-sub001/internal/order/infra/postgres"
	"github.com/hoterry/whatsdish-mobile-sub001/pkg/config"
	"github.com/hoterry/whatsdish-mobile-sub001/pkg/logger"
	"github.com/hoterry/whatsdish-mobile-sub001/pkg/shutdown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// No .env is fine; the environment may already be set.
		fmt.Fprintln(os.Stderr, "no .env file loaded, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   "ordering-api",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Catalog
	catalogClient := catalogrest.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.FetchTimeout)
	menuCache := catalogapp.NewMenuCache(cfg.Catalog.CacheTTL)
	catalogSvc := catalogapp.NewService(catalogClient, menuCache, log)

	// Cart
	cartStore := cartapp.NewStore()

	// Checkout
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartStoreReader(cartStore),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		10,
	)

	// Orders, only when a database is configured.
	var orderSvc *orderapp.Service
	if cfg.Orders.DSN != "" {
		db, err := sql.Open("postgres", cfg.Orders.DSN)
		if err != nil {
			log.Error("open order db", slog.Any("err", err))
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Error("ping order db", slog.Any("err", err))
			os.Exit(1)
		}
		orderSvc = orderapp.NewService(orderpg.NewOrderRepo(db), cartStore)
	} else {
		log.Warn("ORDERS_DSN not set, order submission disabled")
	}

	handler := api.NewHTTPHandler(catalogSvc, cartStore, checkoutSvc, orderSvc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
