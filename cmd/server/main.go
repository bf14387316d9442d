// Package main starts the dish ranking HTTP server: it loads configuration,
// sets up logging, restores persisted state and serves the JSON API until
// interrupted.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/atinyakov/dishrank/internal/app"
	"github.com/atinyakov/dishrank/internal/config"
	"github.com/atinyakov/dishrank/internal/logger"
	"github.com/atinyakov/dishrank/internal/server/handler/http"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open storage, load fixtures and restore state.
	a, err := app.New(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot start app", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			zapLogger.Error("close storage", zap.Error(err))
		}
	}()

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: a.Auth, Log: zapLogger}
	voteHandler := &http.VoteHandler{VoteService: a.Ledger, Catalog: a.Catalog, Log: zapLogger}
	dishHandler := &http.DishHandler{Catalog: a.Catalog, Rankings: a.Rankings, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, voteHandler, dishHandler, a.Auth, options.ImageDir, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown", zap.Error(err))
	}
}
