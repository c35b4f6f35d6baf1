package catalog_repo

import (
	"context"

	"farmstock/internal/core/id"
	"farmstock/internal/core/security"
	"farmstock/internal/domain/catalog"
	"farmstock/internal/domain/inventory"
	"farmstock/internal/infrastructure/storage/postgres"
)

var (
	farms          = newTable[catalog.Farm]("farms", "farm")
	warehouses     = newTable[catalog.Warehouse]("warehouses", "warehouse")
	stockLocations = newTable[catalog.StockLocation]("stock_locations", "stock location")
	suppliers      = newTable[catalog.Supplier]("suppliers", "supplier")
	supplyItems    = newTable[catalog.SupplyItem]("supply_items", "supply item")
	supplyLots     = newTable[catalog.SupplyLot]("supply_lots", "supply lot")
	seasons        = newTable[catalog.Season]("seasons", "season")
	tasks          = newTable[catalog.Task]("tasks", "task")
)

// Compile-time interface checks.
var (
	_ inventory.Catalog   = (*Reader)(nil)
	_ security.FarmOwners = (*Reader)(nil)
)

// Reader implements inventory.Catalog and security.FarmOwners.
type Reader struct {
	baseRepo
}

// NewReader creates a catalog reader.
func NewReader(txm *postgres.TxManager) *Reader {
	return &Reader{baseRepo: newBaseRepo(txm)}
}

func (r *Reader) GetFarm(ctx context.Context, farmID id.ID) (catalog.Farm, error) {
	return getByID(ctx, r.baseRepo, farms, farmID)
}

// GetFarmOwner returns the owner of the farm.
func (r *Reader) GetFarmOwner(ctx context.Context, farmID id.ID) (id.ID, error) {
	farm, err := r.GetFarm(ctx, farmID)
	if err != nil {
		return id.ID{}, err
	}
	return farm.OwnerID, nil
}

func (r *Reader) GetWarehouse(ctx context.Context, warehouseID id.ID) (catalog.Warehouse, error) {
	return getByID(ctx, r.baseRepo, warehouses, warehouseID)
}

func (r *Reader) GetStockLocation(ctx context.Context, locationID id.ID) (catalog.StockLocation, error) {
	return getByID(ctx, r.baseRepo, stockLocations, locationID)
}

func (r *Reader) GetSupplyLot(ctx context.Context, lotID id.ID) (catalog.SupplyLot, error) {
	return getByID(ctx, r.baseRepo, supplyLots, lotID)
}

func (r *Reader) GetSupplier(ctx context.Context, supplierID id.ID) (catalog.Supplier, error) {
	return getByID(ctx, r.baseRepo, suppliers, supplierID)
}

func (r *Reader) GetSupplyItem(ctx context.Context, itemID id.ID) (catalog.SupplyItem, error) {
	return getByID(ctx, r.baseRepo, supplyItems, itemID)
}

func (r *Reader) GetSeason(ctx context.Context, seasonID id.ID) (catalog.Season, error) {
	return getByID(ctx, r.baseRepo, seasons, seasonID)
}

func (r *Reader) GetTask(ctx context.Context, taskID id.ID) (catalog.Task, error) {
	return getByID(ctx, r.baseRepo, tasks, taskID)
}
