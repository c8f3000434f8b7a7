package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/leoman8109754gmailcom/mcm-cleaning/cmd/mainconfig"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/api/router"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/availability"
	appconfig "github.com/leoman8109754gmailcom/mcm-cleaning/internal/config"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/content"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/observability/metrics"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Local .env is optional
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting mcm-cleaning API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"email_provider", cfg.EmailProvider,
	)

	ctx := context.Background()
	metricsHandler, contactMetrics := setupMetrics()

	sender, err := mainconfig.NewEmailSender(ctx, cfg, contactMetrics, logger)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		os.Exit(1)
	}
	relayCfg := cfg.Contact()
	relay := contact.NewRelay(relayCfg, sender, contactMetrics, logger)

	redisClient := mainconfig.BuildRedisClient(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	contentHandler, blocked, checks := setupContent(cfg, redisClient, contactMetrics, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		ContactHandler:      contact.NewHandler(relay),
		AvailabilityHandler: availability.NewHandler(blocked, relayCfg.Location(), logger),
		ContentHandler:      contentHandler,
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		HealthChecks:        checks,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.ContactMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	m := metrics.NewContactMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}

// setupContent wires the CMS read path. Without a project id the content
// routes are off and the calendar shows no blocked days.
func setupContent(cfg *appconfig.Config, redisClient *redis.Client, m *metrics.ContactMetrics, logger *logging.Logger) (*content.Handler, availability.Source, map[string]router.Pinger) {
	if !cfg.ContentEnabled() {
		logger.Warn("SANITY_PROJECT_ID not set; content routes disabled")
		none := availability.SourceFunc(func(context.Context) ([]availability.BlockedDateRange, error) {
			return nil, nil
		})
		return nil, none, nil
	}

	sanity, err := content.NewSanityClient(content.SanityConfig{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		UseCDN:     cfg.SanityUseCDN,
		Token:      cfg.SanityAuthToken,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to build CMS client", "error", err)
		os.Exit(1)
	}

	source := content.NewCachedSource(sanity, redisClient, cfg.ContentCacheTTL, m, logger)
	checks := map[string]router.Pinger{"cms": sanity}
	if redisClient != nil {
		checks["redis"] = router.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	return content.NewHandler(source, logger), content.NewService(source), checks
}
