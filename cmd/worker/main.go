// Package main is the entry point for the farmstock background worker.
// It sweeps lot lifecycle statuses and purges expired idempotency keys.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmstock/internal/app"
	"farmstock/internal/domain/inventory"
	"farmstock/internal/infrastructure/config"
	"farmstock/internal/infrastructure/storage/postgres"
	"farmstock/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	if err := run(*configPath, *once); err != nil {
		fmt.Fprintf(os.Stderr, "farmstock worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, once bool) error {
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

	db, err := app.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	inv := app.NewInventory(cfg, db)
	w := &Worker{
		lifecycle:   inv.Lifecycle,
		idempotency: postgres.NewIdempotencyStore(db.TxManager, cfg.HTTP.IdempotencyTTL),
		pool:        db.Pool,
		log:         log.WithComponent("worker"),
	}

	if once {
		w.tick(ctx)
		return nil
	}

	log.Infow("starting farmstock worker", "sweep_interval", cfg.Worker.SweepInterval)
	w.Run(ctx, cfg.Worker.SweepInterval)
	log.Info("worker stopped")
	return nil
}

// Worker runs periodic maintenance against the ledger database.
type Worker struct {
	lifecycle   *inventory.LotLifecycle
	idempotency *postgres.IdempotencyStore
	pool        *postgres.Pool
	log         *logger.Logger
}

// Run ticks until ctx is cancelled. The first tick runs immediately.
func (w *Worker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	w.sweepLots(ctx)
	w.cleanupIdempotency(ctx)
	w.pool.LogPoolStats(ctx)
}

func (w *Worker) sweepLots(ctx context.Context) {
	res, err := w.lifecycle.Sweep(ctx, time.Now())
	if err != nil {
		w.log.Errorw("lot sweep failed", "error", err)
		return
	}
	if res.Expired+res.Depleted+res.Restocked+res.Failed > 0 {
		w.log.Infow("lot sweep finished",
			"checked", res.Checked,
			"expired", res.Expired,
			"depleted", res.Depleted,
			"restocked", res.Restocked,
			"failed", res.Failed,
		)
	}
}

func (w *Worker) cleanupIdempotency(ctx context.Context) {
	n, err := w.idempotency.CleanupExpired(ctx)
	if err != nil {
		w.log.Warnw("idempotency cleanup failed", "error", err)
		return
	}
	if n > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", n)
	}
}
