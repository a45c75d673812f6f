package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/bootstrap"
	"github.com/bryanwahyu/laporkerja/internal/config"
	"github.com/bryanwahyu/laporkerja/internal/infra/httpserver"
	"github.com/bryanwahyu/laporkerja/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	ctx := context.Background()
	app, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	defer app.Close()

	limiter := middleware.NewRateLimiter(cfg.Server.SubmitRate)
	defer limiter.Stop()

	handler := httpserver.NewRouter(httpserver.Deps{
		Reports:        app.Reports,
		Delivery:       app.Delivery,
		Settings:       app.Settings,
		Metrics:        middleware.NewMetrics(),
		Limiter:        limiter,
		Checkers:       app.Checkers,
		Logger:         logger.Named("http"),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// submit menunggu oracle, jadi write timeout harus lebih panjang
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
