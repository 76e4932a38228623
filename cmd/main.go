package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/duynhne/pkg/logger/zerolog"
	"github.com/duynhne/vchartered/config"
	"github.com/duynhne/vchartered/internal/core"
	"github.com/duynhne/vchartered/internal/core/cache"
	"github.com/duynhne/vchartered/internal/generation"
	logicv1 "github.com/duynhne/vchartered/internal/logic/v1"
	v1 "github.com/duynhne/vchartered/internal/web/v1"
	"github.com/duynhne/vchartered/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	// Initialize Zerolog with LOG_LEVEL from config
	zerolog.Setup(cfg.Logging.Level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Str("db_driver", cfg.Database.Driver).
		Msg("Service starting")

	// Initialize OpenTelemetry tracing
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			tp = provider
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().
				Str("endpoint", cfg.Profiling.Endpoint).
				Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Open and migrate the credential store
	store, err := core.Open(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open credential store")
	}
	defer store.Close()
	log.Info().Msg("Credential store ready")

	storeOpts := []logicv1.StoreOption{}
	if cfg.Cache.RedisAddr != "" {
		rdb, err := cache.Connect(context.Background(), cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, leaderboard cache disabled")
		} else {
			defer rdb.Close()
			storeOpts = append(storeOpts, logicv1.WithLeaderboardCache(cache.NewRedisLeaderboard(rdb, cfg.GetCacheTTLDuration())))
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Leaderboard cache enabled")
		}
	}
	credentials := logicv1.NewCredentialStore(store.Users, store.Results, store.Activity, storeOpts...)

	var codec logicv1.TokenCodec = logicv1.PlainCodec{}
	if cfg.Session.SigningKey != "" {
		signed, err := logicv1.NewSignedCodec(cfg.Session.SigningKey, cfg.GetSessionTTLDuration())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create session codec")
		}
		codec = signed
		log.Info().Dur("ttl", cfg.GetSessionTTLDuration()).Msg("Signed session tokens enabled")
	}
	sessions := logicv1.NewSessionManager(credentials, codec)

	var gen generation.Generator = generation.Disabled{}
	if gemini, err := generation.NewGeminiClient(context.Background(), cfg.Generation.APIKey, cfg.Generation.Model); err != nil {
		log.Warn().Err(err).Msg("Generation service disabled")
	} else {
		gen = gemini
		log.Info().Str("model", gemini.Name()).Msg("Generation service ready")
	}
	gen = generation.WithRetry(gen, cfg.GetGenerationRetryDelayDuration())

	study := logicv1.NewStudyService(gen, credentials, logicv1.MarkScorer{Default: cfg.Generation.DefaultScore})

	handler := v1.NewHandler(sessions, credentials, study, v1.Options{
		PublicURL:    cfg.Service.PublicURL,
		SessionParam: cfg.Session.QueryParam,
	})

	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	r.Use(middleware.TracingMiddleware())
	r.Use(middleware.LoggingMiddleware(cfg.Session.QueryParam))
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(r.Group("/api/v1"))

	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting V-Chartered service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	// 1. Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	// 2. Close database connections
	store.Close()
	log.Info().Msg("Credential store closed")

	// 3. Shutdown tracer
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
