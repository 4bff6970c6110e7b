package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"enorae-backend/booking"
	"enorae-backend/config"
	"enorae-backend/routes"
	"enorae-backend/services"
	"enorae-backend/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "enorae-backend"

func main() {
	logger := config.NewLogger(serviceName)
	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	if err := config.ConnectDB(settings.DatabaseURL); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := config.Migrate(config.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	shutdownTracing, err := config.SetupTracing(ctx, settings, serviceName)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	var counter utils.WindowCounter
	rdb, err := config.ConnectRedis(ctx, settings)
	if err != nil {
		// Bookings still work without the limiter.
		logger.Warn("redis unavailable, rate limiting disabled", "error", err)
	} else if rdb != nil {
		defer rdb.Close()
		counter = utils.NewRedisCounter(rdb)
	}

	events := services.NewEventPublisher(settings.KafkaBrokers, settings.KafkaBookingTopic, logger)
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("event publisher close failed", "error", err)
		}
	}()

	booker := booking.NewBooker(booking.NewGormStore(config.DB),
		booking.WithLocation(settings.BookingLocation),
		booking.WithMaxDaysAhead(settings.MaxDaysAhead),
		booking.WithLogger(logger),
		booking.WithNotifier(events),
	)

	rollup := services.NewMetricsRollup(config.DB, logger, settings.BookingLocation)
	if err := rollup.StartScheduler(settings.MetricsCron); err != nil {
		return fmt.Errorf("metrics scheduler: %w", err)
	}
	defer rollup.Stop()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(routes.Deps{
		Settings:   settings,
		Logger:     logger,
		Booker:     booker,
		Events:     events,
		Commission: services.NewCommissionService(config.DB, settings.BookingLocation),
		Counter:    counter,
	})
	printRoutes(logger, r)

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printRoutes(logger *slog.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		logger.Debug("route", "method", route.Method, "path", route.Path)
	}
}
