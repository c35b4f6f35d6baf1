// Package app assembles the process-level dependencies shared by the
// farmstock binaries.
package app

import (
	"context"
	"fmt"

	"farmstock/internal/core/security"
	"farmstock/internal/domain/inventory"
	"farmstock/internal/infrastructure/config"
	"farmstock/internal/infrastructure/numerator"
	"farmstock/internal/infrastructure/storage/postgres"
	"farmstock/internal/infrastructure/storage/postgres/catalog_repo"
	"farmstock/internal/infrastructure/storage/postgres/ledger_repo"
	"farmstock/pkg/logger"
)

// NewLogger builds the process logger and installs it as the default.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: !cfg.App.IsProduction(),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}

// Database is an open pool with its transaction manager.
type Database struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
}

// Close releases every pooled connection.
func (d *Database) Close() {
	d.Pool.Close()
}

// OpenDatabase connects to Postgres and, when configured, applies pending
// migrations first.
func OpenDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Database, error) {
	if cfg.Database.AutoMigrate {
		if err := Migrate(cfg, log); err != nil {
			return nil, err
		}
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.ApplicationName = cfg.App.Name
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	txOpts := postgres.DefaultTxOptions()
	txOpts.StatementTimeout = cfg.Database.StatementTimeout

	return &Database{
		Pool:      pool,
		TxManager: postgres.NewTxManager(pool, txOpts),
	}, nil
}

// Migrate applies all pending migrations.
func Migrate(cfg *config.Config, log *logger.Logger) error {
	m, err := postgres.NewMigrator(cfg.Database.URL, log.Desugar())
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	return m.Up()
}

// Inventory holds the wired inventory components.
type Inventory struct {
	Service   *inventory.Service
	Lifecycle *inventory.LotLifecycle
	Catalog   *catalog_repo.Reader
}

// NewInventory wires the inventory service onto Postgres.
func NewInventory(cfg *config.Config, db *Database) *Inventory {
	ledger := ledger_repo.NewLedgerRepo(db.TxManager)
	lots := catalog_repo.NewLotRepo(db.TxManager)
	reader := catalog_repo.NewReader(db.TxManager)

	svc := inventory.NewService(inventory.Deps{
		Ledger:    ledger,
		Lots:      lots,
		Catalog:   reader,
		Guard:     security.NewFarmGuard(reader),
		Locker:    postgres.NewStockLocker(db.TxManager),
		TxManager: db.TxManager,
		Numerator: numerator.New(db.TxManager),
	})

	return &Inventory{
		Service:   svc,
		Lifecycle: inventory.NewLotLifecycle(lots, ledger, cfg.Worker.ExpiryGrace),
		Catalog:   reader,
	}
}
