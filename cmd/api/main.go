package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/surendar2011/courseApp/internal/cache"
	"github.com/surendar2011/courseApp/internal/config"
	"github.com/surendar2011/courseApp/internal/db"
	httpx "github.com/surendar2011/courseApp/internal/http"
	"github.com/surendar2011/courseApp/internal/observability"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is optional; only wired when an OTLP endpoint is configured
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "coursehub-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// database pool + schema

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	migrateCtx, cancelMigrate := config.WithTimeout(30 * time.Second)

	err = db.RunMigrations(migrateCtx, cfg.DBURL)

	cancelMigrate()

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// redis is optional: without it the catalog cache simply never hits

	var redisClient *cache.Client

	if cfg.RedisAddr != "" {
		redisClient = cache.New(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)

		err = redisClient.Ping(pingCtx)

		cancelPing()

		if err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}

		defer redisClient.Close()
	}

	// metrics

	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)

	// set up router with dependencies
	router := httpx.NewRouter(log, pool, redisClient, prom, promReg, cfg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
