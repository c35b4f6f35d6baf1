package inventory

import (
	"context"
	"fmt"

	"farmstock/internal/core/id"
	"farmstock/internal/core/types"
)

// Reconciler derives on-hand quantities from the ledger.
// Nothing is cached: every call folds the current ledger contents.
type Reconciler struct {
	ledger LedgerRepository
}

// NewReconciler creates a new reconciler.
func NewReconciler(ledger LedgerRepository) *Reconciler {
	return &Reconciler{ledger: ledger}
}

// OnHand returns IN + ADJUST - OUT for the key.
func (r *Reconciler) OnHand(ctx context.Context, key StockKey) (types.Quantity, error) {
	totals, err := r.ledger.Totals(ctx, key)
	if err != nil {
		return types.Quantity{}, fmt.Errorf("sum ledger for lot %s: %w", key.SupplyLotID, err)
	}
	return totals.OnHand(), nil
}

// LotOnHand returns the lot's on-hand quantity summed over every warehouse.
func (r *Reconciler) LotOnHand(ctx context.Context, lotID id.ID) (types.Quantity, error) {
	totals, err := r.ledger.LotTotals(ctx, lotID)
	if err != nil {
		return types.Quantity{}, fmt.Errorf("sum ledger for lot %s: %w", lotID, err)
	}
	return totals.OnHand(), nil
}

// Balance is a lot with its derived quantity at a warehouse.
type Balance struct {
	SupplyLotID id.ID
	OnHand      types.Quantity
}

// PositiveBalances computes the balance of every lot with activity at the
// warehouse (narrowed to one location or lot when given) and keeps only
// strictly positive ones.
func (r *Reconciler) PositiveBalances(ctx context.Context, warehouseID id.ID, locationID, lotID *id.ID) ([]Balance, error) {
	lotIDs, err := r.ledger.ListLotIDs(ctx, warehouseID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list lots at warehouse %s: %w", warehouseID, err)
	}

	balances := make([]Balance, 0, len(lotIDs))
	for _, lid := range lotIDs {
		if lotID != nil && *lotID != lid {
			continue
		}
		qty, err := r.OnHand(ctx, StockKey{SupplyLotID: lid, WarehouseID: warehouseID, LocationID: locationID})
		if err != nil {
			return nil, err
		}
		if !qty.IsPositive() {
			continue
		}
		balances = append(balances, Balance{SupplyLotID: lid, OnHand: qty})
	}
	return balances, nil
}
