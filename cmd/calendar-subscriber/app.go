package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"calsync/internal/calendar"
	"calsync/internal/config"
	"calsync/internal/constants"
	"calsync/internal/dispatch"
	"calsync/internal/logger"
	"calsync/internal/logo"
	"calsync/internal/subscriber"
	"calsync/pkg/health"
	"calsync/pkg/metrics"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger

	stats      *dispatch.Stats
	enricher   *logo.Enricher
	dispatcher *dispatch.Dispatcher
	sub        subscriber.Subscriber

	healthRedis *redis.Client
	server      *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("calendar-subscriber")
	}
	return &App{
		cfg:    cfg,
		logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	metrics.RegisterSubscriberMetrics()
	metrics.RegisterLogoMetrics()
	metrics.RegisterSyncMetrics()
	if a.cfg.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	if err := a.initEnricher(); err != nil {
		return fmt.Errorf("failed to initialize logo enrichment: %w", err)
	}

	if err := a.initDispatcher(); err != nil {
		return fmt.Errorf("failed to initialize dispatcher: %w", err)
	}

	if err := a.initSubscriber(); err != nil {
		return fmt.Errorf("failed to initialize subscriber: %w", err)
	}

	if err := a.initHTTPServer(); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return nil
}

func (a *App) initEnricher() error {
	if a.cfg.Logo.URL == "" {
		a.logger.Warnw("No logo service configured, matches will not carry combined logos")
		return nil
	}

	client := logo.WrapWithCircuitBreaker(
		logo.NewHTTPClient(a.cfg.Logo, a.logger),
		"logo-combiner",
		a.cfg.CircuitBreaker,
	)

	enricher, err := logo.NewEnricher(client, a.cfg.Logo.CacheSize, a.logger)
	if err != nil {
		return err
	}
	a.enricher = enricher
	return nil
}

func (a *App) initDispatcher() error {
	if a.cfg.Calendar.SyncURL == "" {
		return fmt.Errorf("calendar.sync_url is required")
	}

	a.stats = dispatch.NewStats()
	syncer := calendar.NewHTTPSyncer(a.cfg.Calendar, a.logger)

	// Enricher may be nil; the dispatcher then skips logo attachment.
	var enricher dispatch.Enricher
	if a.enricher != nil {
		enricher = a.enricher
	}

	a.dispatcher = dispatch.NewDispatcher(enricher, syncer, a.stats, a.logger)
	return nil
}

func (a *App) initSubscriber() error {
	sub, err := subscriber.New(a.cfg.Transport, a.dispatcher.Handle, a.logger)
	if err != nil {
		return err
	}
	a.sub = sub
	return nil
}

func (a *App) initHTTPServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	healthRegistry := health.NewCheckerRegistry()
	if a.cfg.Transport.Type == constants.TransportTypeRedis && a.cfg.Transport.Redis.Enabled {
		if opts, err := redis.ParseURL(a.cfg.Transport.Redis.URL); err == nil {
			a.healthRedis = redis.NewClient(opts)
			healthRegistry.Register(health.NewRedisChecker(a.healthRedis))
		}
	}
	if a.cfg.Logo.URL != "" {
		healthRegistry.Register(health.NewHTTPChecker("logo-combiner", a.cfg.Logo.URL+"/health"))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/status", func(c *gin.Context) {
		status := a.sub.Status()
		snapshot := a.stats.Snapshot()

		logoCacheSize := 0
		if a.enricher != nil {
			logoCacheSize = a.enricher.CacheLen()
		}

		c.JSON(http.StatusOK, gin.H{
			"enabled":        status.Enabled,
			"connected":      status.Connected,
			"subscribed":     status.Subscribed,
			"state":          status.State,
			"channels":       status.Channels,
			"reconnects":     status.Reconnects,
			"uptime_seconds": status.UptimeSeconds,
			"statistics":     snapshot,
			"logo_service": gin.H{
				"enabled":    a.enricher != nil,
				"cache_size": logoCacheSize,
			},
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeoutSeconds,
		WriteTimeout: a.cfg.Server.WriteTimeoutSeconds,
	}

	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfowCtx(ctx, "HTTP server starting", "port", a.cfg.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.sub.Start(gCtx); err != nil {
			return fmt.Errorf("failed to start subscription: %w", err)
		}
		<-gCtx.Done()
		a.sub.Stop()
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Infow("Shutting down calendar subscriber")

	if a.healthRedis != nil {
		if err := a.healthRedis.Close(); err != nil {
			return fmt.Errorf("redis close error: %w", err)
		}
	}
	return nil
}
