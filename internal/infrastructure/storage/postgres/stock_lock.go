package postgres

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"farmstock/internal/core/id"
)

// ErrNoTransaction is returned when a transaction-scoped lock is requested
// outside a transaction.
var ErrNoTransaction = errors.New("no active transaction")

// StockLocker serializes writers of a (lot, warehouse) balance with a
// transaction-scoped advisory lock. The lock is released on commit or rollback.
type StockLocker struct {
	txm *TxManager
}

// NewStockLocker creates a new stock-key locker.
func NewStockLocker(txm *TxManager) *StockLocker {
	return &StockLocker{txm: txm}
}

// LockStockKey blocks until the key's lock is held by the current transaction.
func (l *StockLocker) LockStockKey(ctx context.Context, lotID, warehouseID id.ID) error {
	pgTx := l.txm.GetTx(ctx)
	if pgTx == nil {
		return ErrNoTransaction
	}

	key := StockLockKey(lotID, warehouseID)
	ctx, span := tracer.Start(ctx, "stock_key_lock",
		trace.WithAttributes(
			attribute.String("supply_lot_id", lotID.String()),
			attribute.String("warehouse_id", warehouseID.String()),
			attribute.Int64("lock_key", key),
		))
	defer span.End()

	if _, err := pgTx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
		span.RecordError(err)
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

// StockLockKey hashes (lot, warehouse) into the 64-bit advisory lock space.
func StockLockKey(lotID, warehouseID id.ID) int64 {
	h := fnv.New64a()
	_, _ = h.Write(lotID[:])
	_, _ = h.Write(warehouseID[:])
	return int64(h.Sum64())
}
