package inventory

import (
	"context"
	"fmt"
	"time"

	"farmstock/internal/core/id"
	"farmstock/internal/core/numerator"
	"farmstock/internal/core/tx"
	"farmstock/internal/core/types"
	"farmstock/pkg/logger"
)

// Service is the inventory entry point: it records movements, receives
// stock and serves balance and history queries.
type Service struct {
	ledger     LedgerRepository
	lots       LotStore
	catalog    Catalog
	guard      AccessGuard
	locker     StockLocker
	txManager  tx.Manager
	numerator  numerator.Generator
	reconciler *Reconciler
	validator  *Validator
	now        func() time.Time
}

// Deps wires the service's collaborators.
type Deps struct {
	Ledger    LedgerRepository
	Lots      LotStore
	Catalog   Catalog
	Guard     AccessGuard
	Locker    StockLocker
	TxManager tx.Manager
	Numerator numerator.Generator
}

// NewService creates a new inventory service.
func NewService(d Deps) *Service {
	reconciler := NewReconciler(d.Ledger)
	return &Service{
		ledger:     d.Ledger,
		lots:       d.Lots,
		catalog:    d.Catalog,
		guard:      d.Guard,
		locker:     d.Locker,
		txManager:  d.TxManager,
		numerator:  d.Numerator,
		reconciler: reconciler,
		validator:  NewValidator(d.Catalog, d.Guard, reconciler),
		now:        time.Now,
	}
}

// RecordMovement validates and appends one movement.
//
// Validation and append run in one transaction holding the (lot, warehouse)
// lock, so concurrent OUTs against the same balance are applied one at a time.
func (s *Service) RecordMovement(ctx context.Context, req MovementRequest) (StockMovement, error) {
	var stored StockMovement

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		stored, err = s.appendValidated(ctx, req)
		return err
	})
	if err != nil {
		return StockMovement{}, err
	}

	logger.Info(ctx, "stock movement recorded",
		"movement_id", stored.ID,
		"type", stored.Type,
		"supply_lot_id", stored.SupplyLotID,
		"warehouse_id", stored.WarehouseID,
		"quantity", stored.Quantity.String(),
	)
	return stored, nil
}

// appendValidated must run inside a transaction.
func (s *Service) appendValidated(ctx context.Context, req MovementRequest) (StockMovement, error) {
	if err := s.locker.LockStockKey(ctx, req.SupplyLotID, req.WarehouseID); err != nil {
		return StockMovement{}, fmt.Errorf("lock stock key: %w", err)
	}

	m, err := s.validator.Validate(ctx, req)
	if err != nil {
		return StockMovement{}, err
	}

	stored, err := s.ledger.Append(ctx, m)
	if err != nil {
		return StockMovement{}, fmt.Errorf("append movement: %w", err)
	}
	return stored, nil
}

// GetOnHand returns the current balance of a lot at a warehouse, optionally
// narrowed to one location.
func (s *Service) GetOnHand(ctx context.Context, key StockKey) (types.Quantity, error) {
	if err := s.authorizeWarehouse(ctx, key.WarehouseID, key.LocationID); err != nil {
		return types.Quantity{}, err
	}
	if _, err := s.catalog.GetSupplyLot(ctx, key.SupplyLotID); err != nil {
		return types.Quantity{}, fmt.Errorf("get supply lot: %w", err)
	}
	return s.reconciler.OnHand(ctx, key)
}

// authorizeWarehouse resolves the warehouse (and location) and checks the
// acting user against the warehouse's farm.
func (s *Service) authorizeWarehouse(ctx context.Context, warehouseID id.ID, locationID *id.ID) error {
	wh, err := s.catalog.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return fmt.Errorf("get warehouse: %w", err)
	}
	if locationID != nil {
		if _, err := s.validator.resolveLocation(ctx, wh.ID, *locationID); err != nil {
			return err
		}
	}
	return s.guard.AssertCanAccessFarm(ctx, wh.FarmID)
}
