// Command docgen-server runs the authenticated proxy between the web client
// and the external backend API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/goliatone/go-docgen/internal/api"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("ADDR", ":8080"), "listen address")
	upstream := flag.String("api-url", os.Getenv("API_URL"), "external backend base URL (required)")
	timeout := flag.Duration("timeout", 30*time.Second, "upstream request timeout")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if *upstream == "" {
		logger.Fatal("missing backend URL (--api-url or API_URL)")
	}

	server, err := api.NewServer(api.Config{UpstreamURL: *upstream, Timeout: *timeout}, logger)
	if err != nil {
		logger.Fatal("build server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", zap.String("addr", *addr), zap.String("upstream", *upstream))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
