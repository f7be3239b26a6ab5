package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mytheresa/vendor-catalog/app"
	"github.com/mytheresa/vendor-catalog/app/catalog"
	"github.com/mytheresa/vendor-catalog/app/vendors"
	"github.com/mytheresa/vendor-catalog/config"
	"github.com/mytheresa/vendor-catalog/metrics"
	"github.com/mytheresa/vendor-catalog/models"
	"github.com/mytheresa/vendor-catalog/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Error loading .env file")
	}
	configureLogging(cfg.Log)

	db, err := store.Open(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Error connecting to the database")
	}
	logrus.WithField("driver", cfg.Database.Driver).Info("Successfully connected to the database")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storeMetrics := metrics.NewStoreMetrics(reg)

	// A repository per request: each one stages its own changes.
	catalogHandler := catalog.NewCatalogHandler(func() catalog.ProductProvider {
		return models.NewProductsRepository(metrics.InstrumentStore(store.NewGormStore(db), storeMetrics))
	})
	vendorHandler := vendors.NewVendorHandler(models.NewVendorsRepository(db))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.NewRouter(catalogHandler, vendorHandler, metrics.Handler(reg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func configureLogging(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithError(err).Warnf("Unknown LOG_LEVEL %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
