package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/campsite-booking-backend/internal/app"
	"github.com/nekogravitycat/campsite-booking-backend/internal/clock"
	"github.com/nekogravitycat/campsite-booking-backend/internal/config"
	"github.com/nekogravitycat/campsite-booking-backend/internal/db"
	"github.com/nekogravitycat/campsite-booking-backend/internal/events"
	"github.com/nekogravitycat/campsite-booking-backend/internal/logger"
	"github.com/nekogravitycat/campsite-booking-backend/internal/obs"
)

const serviceName = "campsite-booking"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.IsProduction())

	// Tracing
	shutdownTracer, err := obs.InitTracer(ctx, serviceName, cfg.OTLPEndpoint, cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Connect DB
	var pool *pgxpool.Pool
	if cfg.StorageDriver == config.StoragePostgres {
		pool, err = db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.DBMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			log.Info("database schema applied")
		}
	}

	// Event publisher
	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("publishing reservation events", "exchange", cfg.AMQPExchange)
	}

	container := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction(),
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		LockTimeout:  cfg.LockTimeout,
		Clock:        clock.NewSystem(cfg.Location),
		Publisher:    publisher,
		Logger:       log,
		JWTSecret:    cfg.AdminJWTSecret,
		JWTTTL:       cfg.AdminTokenTTL,
	})

	if cfg.SeedSites {
		n, err := container.SeedSites(ctx)
		if err != nil {
			return err
		}
		log.Info("site catalog seeded", "added", n)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver, "timezone", cfg.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for Ctrl+C or a listener failure
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", "error", err)
	}

	log.Info("server exited gracefully")
	return nil
}
