package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/application/service"
	"github.com/damon-houk/fx-quote-reconciler/internal/domain/repository"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/api"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/config"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/db"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/handler"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/metrics"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/middleware"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/spreadsheet"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.GetDefaultLogger().Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	log := logger.NewJSONLogger(os.Stdout, level)
	logger.SetDefaultLogger(log)
	if err != nil {
		log.Warn("Unknown log level, using INFO", map[string]interface{}{"level": cfg.Log.Level})
	}

	log.Info("Starting FX quote reconciler", map[string]interface{}{
		"addr":          cfg.Server.Addr,
		"base_url":      cfg.API.BaseURL,
		"base_currency": cfg.API.BaseCurrency,
	})

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid workbook timezone", map[string]interface{}{"error": err.Error()})
	}

	quoteMetrics := metrics.NewQuoteMetrics(prometheus.DefaultRegisterer)

	// Setup the report journal
	var reports repository.ReportRepository
	if cfg.Journal.Enabled {
		if err := os.MkdirAll(cfg.Journal.Dir, 0755); err != nil {
			log.Fatal("Failed to create journal directory", map[string]interface{}{
				"dir":   cfg.Journal.Dir,
				"error": err.Error(),
			})
		}

		badgerDB, err := db.Open(cfg.Journal.Dir)
		if err != nil {
			log.Fatal("Failed to open journal", map[string]interface{}{"error": err.Error()})
		}
		defer func() {
			if err := badgerDB.Close(); err != nil {
				log.Error("Error closing journal", map[string]interface{}{"error": err.Error()})
			}
		}()

		reports = db.NewBadgerReportRepository(badgerDB)
	}

	// Initialize the pricing client and the workbook store
	quoteAPI := api.NewAwesomeAPIClient(api.ClientConfig{
		BaseURL:      cfg.API.BaseURL,
		BaseCurrency: cfg.API.BaseCurrency,
		CacheTTL:     cfg.API.CacheTTL,
		Location:     loc,
	}, &http.Client{Timeout: cfg.API.Timeout}, log, quoteMetrics)
	tables := spreadsheet.NewXLSXTableRepository(log)

	// Initialize services
	quoteService := service.NewQuoteService(quoteAPI, quoteAPI.BaseCurrency(), log)
	reconciliationService := service.NewReconciliationService(quoteAPI, tables, reports,
		service.ReconciliationConfig{
			OutputSuffix: cfg.Workbook.OutputSuffix,
			Location:     loc,
		}, log, quoteMetrics)

	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	currencies := quoteService.LoadCurrencies(startupCtx, cfg.Pairs())
	cancel()

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log, quoteMetrics))
	handler.NewQuoteHandler(quoteService, currencies, log).RegisterRoutes(router)
	handler.NewReconciliationHandler(reconciliationService, log).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server stopped", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	// Reconciliations are not cancellable; give a running batch time to save
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server stopped", nil)
}
