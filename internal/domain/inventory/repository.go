package inventory

import (
	"context"

	"farmstock/internal/core/id"
	"farmstock/internal/domain/catalog"
)

// LedgerRepository is the storage port of the movement ledger.
// Implementations must never update or delete stored movements.
type LedgerRepository interface {
	// Append persists a new movement and returns it with its assigned id and timestamp.
	Append(ctx context.Context, m NewMovement) (StockMovement, error)

	// Totals sums quantities per movement type for the key.
	// A nil LocationID aggregates the whole warehouse.
	Totals(ctx context.Context, key StockKey) (Totals, error)

	// LotTotals sums quantities per movement type for a lot across all warehouses.
	LotTotals(ctx context.Context, lotID id.ID) (Totals, error)

	// ListLotIDs returns the distinct lots with at least one movement at the
	// warehouse (and location, if given).
	ListLotIDs(ctx context.Context, warehouseID id.ID, locationID *id.ID) ([]id.ID, error)

	// List returns a page of movements and the total count matching the filter,
	// newest first.
	List(ctx context.Context, filter MovementFilter) ([]StockMovement, int, error)
}

// LotStore is the write side of supply lots.
type LotStore interface {
	CreateLot(ctx context.Context, lot catalog.SupplyLot) (catalog.SupplyLot, error)
	UpdateLotStatus(ctx context.Context, lotID id.ID, status catalog.LotStatus) error
	ListLotsByStatus(ctx context.Context, statuses ...catalog.LotStatus) ([]catalog.SupplyLot, error)
}

// Catalog provides read-only lookups. Every getter returns a NotFound AppError
// when the record does not exist.
type Catalog interface {
	GetWarehouse(ctx context.Context, warehouseID id.ID) (catalog.Warehouse, error)
	GetStockLocation(ctx context.Context, locationID id.ID) (catalog.StockLocation, error)
	GetSupplyLot(ctx context.Context, lotID id.ID) (catalog.SupplyLot, error)
	GetSupplier(ctx context.Context, supplierID id.ID) (catalog.Supplier, error)
	GetSupplyItem(ctx context.Context, itemID id.ID) (catalog.SupplyItem, error)
	GetSeason(ctx context.Context, seasonID id.ID) (catalog.Season, error)
	GetTask(ctx context.Context, taskID id.ID) (catalog.Task, error)
}

// AccessGuard authorizes the acting user.
type AccessGuard interface {
	CurrentUser(ctx context.Context) (id.ID, error)
	AssertCanAccessFarm(ctx context.Context, farmID id.ID) error
}

// StockLocker serializes writers of one (lot, warehouse) balance for the
// lifetime of the surrounding transaction.
type StockLocker interface {
	LockStockKey(ctx context.Context, lotID, warehouseID id.ID) error
}
