package main

import (
	"classpulse/internal/cache"
	"classpulse/internal/config"
	"classpulse/internal/logger"
	"classpulse/internal/seed"
	"classpulse/internal/service"
	"classpulse/internal/transport/rest"
	"classpulse/internal/transport/rest/middleware"
	"classpulse/internal/transport/ws"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const noticeScope = "default"

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()

	// Notice channel: Redis when configured, in-process timer otherwise
	notices := cache.NewMemoryNoticeCache(cfg.Notice.TTL)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
		}
		notices = cache.NewRedisNoticeCache(rdb, noticeScope, cfg.Notice.TTL)
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	wsHub := ws.NewHub(log.Named("ws"))
	defer wsHub.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	flowSvc := service.NewFlowService(service.FlowConfig{
		JoinBaseURL: cfg.Share.JoinBaseURL,
		HelpContact: cfg.Share.HelpContact,
	}, notices, service.NewCodes(), service.NewAnalyticsService(), log.Named("flow"))
	flowSvc.SetMetrics(service.NewMetrics(reg))
	flowSvc.SetBroadcaster(wsHub)

	authSvc := service.NewAuthService(cfg.JWT.Secret, cfg.JWT.TTL)

	if seedDemo {
		share, err := seed.Demo(ctx, flowSvc)
		if err != nil {
			return fmt.Errorf("failed to seed demo course: %w", err)
		}
		log.Info("seeded demo course",
			zap.String("course", seed.DemoCourse),
			zap.String("pin", share.PIN),
			zap.String("join_url", share.JoinURL))
	}

	router := rest.NewRouter(&rest.Container{
		FlowService:     flowSvc,
		AuthService:     authSvc,
		WSHub:           wsHub,
		MetricsGatherer: reg,
		JoinLimiter:     middleware.NewRateLimiter(cfg.RateLimit.JoinPerMinute, cfg.RateLimit.JoinBurst),
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		QRSize:          cfg.Share.QRSize,
		Logger:          log.Named("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
