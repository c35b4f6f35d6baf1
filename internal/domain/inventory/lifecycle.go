package inventory

import (
	"context"
	"fmt"
	"time"

	"farmstock/internal/domain/catalog"
	"farmstock/pkg/logger"
)

// LotLifecycle moves supply lots between IN_STOCK, DEPLETED and EXPIRED.
// It reads balances from the ledger and never writes to it.
type LotLifecycle struct {
	lots        LotStore
	reconciler  *Reconciler
	expiryGrace time.Duration
}

// NewLotLifecycle creates a lifecycle sweeper. A lot expires once its expiry
// date plus grace is before the current day.
func NewLotLifecycle(lots LotStore, ledger LedgerRepository, expiryGrace time.Duration) *LotLifecycle {
	return &LotLifecycle{
		lots:        lots,
		reconciler:  NewReconciler(ledger),
		expiryGrace: expiryGrace,
	}
}

// SweepResult counts the transitions made by one sweep.
type SweepResult struct {
	Checked   int
	Expired   int
	Depleted  int
	Restocked int
	Failed    int
}

// Sweep evaluates every IN_STOCK and DEPLETED lot:
//   - past expiry: EXPIRED
//   - IN_STOCK with total on-hand <= 0: DEPLETED
//   - DEPLETED with positive on-hand (after an ADJUST): back to IN_STOCK
//
// Failures on single lots are logged and counted; the sweep goes on.
func (l *LotLifecycle) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	lots, err := l.lots.ListLotsByStatus(ctx, catalog.LotStatusInStock, catalog.LotStatusDepleted)
	if err != nil {
		return res, fmt.Errorf("list lots: %w", err)
	}

	for _, lot := range lots {
		res.Checked++

		next, err := l.nextStatus(ctx, lot, now)
		if err != nil {
			res.Failed++
			logger.Error(ctx, "lot lifecycle evaluation failed", "supply_lot_id", lot.ID, "error", err)
			continue
		}
		if next == lot.Status {
			continue
		}

		if err := l.lots.UpdateLotStatus(ctx, lot.ID, next); err != nil {
			res.Failed++
			logger.Error(ctx, "lot status update failed", "supply_lot_id", lot.ID, "status", next, "error", err)
			continue
		}

		switch next {
		case catalog.LotStatusExpired:
			res.Expired++
		case catalog.LotStatusDepleted:
			res.Depleted++
		case catalog.LotStatusInStock:
			res.Restocked++
		}
	}

	logger.Info(ctx, "lot lifecycle sweep finished",
		"checked", res.Checked,
		"expired", res.Expired,
		"depleted", res.Depleted,
		"restocked", res.Restocked,
		"failed", res.Failed,
	)
	return res, nil
}

func (l *LotLifecycle) nextStatus(ctx context.Context, lot catalog.SupplyLot, now time.Time) (catalog.LotStatus, error) {
	if lot.IsExpired(now.Add(-l.expiryGrace)) {
		return catalog.LotStatusExpired, nil
	}

	onHand, err := l.reconciler.LotOnHand(ctx, lot.ID)
	if err != nil {
		return lot.Status, err
	}

	if onHand.IsPositive() {
		return catalog.LotStatusInStock, nil
	}
	return catalog.LotStatusDepleted, nil
}
