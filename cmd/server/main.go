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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"reservas/internal/api"
	"reservas/internal/audit"
	"reservas/internal/calendar"
	"reservas/internal/classify"
	"reservas/internal/config"
	"reservas/internal/metrics"
	"reservas/internal/models"
	"reservas/internal/notify"
	"reservas/internal/service"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("RESERVAS_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := calendar.Shared(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create calendar client")
	}

	classifier := classify.New(classifierRules(cfg))
	svc := service.New(source, classifier, &logger)

	var rdb *redis.Client
	if cfg.Cache.RedisAddress != "" && cfg.CacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddress,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		svc.UseRedisCache(rdb, cfg.CacheTTL())
	}

	var auditLog *audit.Log
	if cfg.Audit.Enabled {
		auditLog, err = audit.Open(cfg.Audit.DatabasePath, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open audit log")
		}
		defer auditLog.Close()
		svc.UseAudit(auditLog)
	}

	if cfg.Notify.TelegramBotToken != "" && len(cfg.Notify.ChatIDs) > 0 {
		notifier, err := notify.NewTelegram(cfg.Notify.TelegramBotToken, cfg.Notify.ChatIDs, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create telegram notifier")
		}
		svc.UseNotifier(notifier)
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, rdb, &logger)

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().
		Int("restaurants", len(cfg.Restaurants)).
		Str("default", cfg.DefaultRestaurant).
		Msg("reservation service started")

	server := api.NewHTTPServer(cfg, svc, auditLog, &logger)
	if err := server.Run(ctx, cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

func classifierRules(cfg *config.Config) []classify.Rule {
	rules := make([]classify.Rule, 0, len(cfg.Classifier.Rules))
	for _, r := range cfg.Classifier.Rules {
		rules = append(rules, classify.Rule{Contains: r.Contains, Class: models.EventClass(r.Class)})
	}
	return rules
}

func startHealthServer(ctx context.Context, port int, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if rdb != nil {
			ctxPing, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
