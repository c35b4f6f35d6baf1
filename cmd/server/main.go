// Package main is the entry point for the farmstock API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauspost/compress/gzhttp"

	"farmstock/internal/app"
	"farmstock/internal/domain/auth"
	"farmstock/internal/infrastructure/config"
	v1 "farmstock/internal/infrastructure/http/v1"
	"farmstock/internal/infrastructure/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "farmstock server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting farmstock server", "env", cfg.App.Env)

	db, err := app.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connection established")

	inv := app.NewInventory(cfg, db)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})

	routerCfg := v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		Inventory:    inv.Service,
		Health:       db.Pool,
		Debug:        !cfg.App.IsProduction() && cfg.Log.Level == "debug",
	}
	if cfg.HTTP.Idempotency {
		routerCfg.Idempotency = postgres.NewIdempotencyStore(db.TxManager, cfg.HTTP.IdempotencyTTL)
	}

	router, err := v1.NewRouter(routerCfg)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	var handler http.Handler = router
	if cfg.HTTP.Gzip {
		handler = gzhttp.GzipHandler(handler)
	}

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
