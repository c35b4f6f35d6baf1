package catalog_repo

import (
	"context"

	"farmstock/internal/domain/catalog"
	"farmstock/internal/infrastructure/storage/postgres"
)

// Writer creates reference records. Catalog maintenance is not an API
// surface; the seed command and integration tests use it.
type Writer struct {
	baseRepo
}

// NewWriter creates a catalog writer.
func NewWriter(txm *postgres.TxManager) *Writer {
	return &Writer{baseRepo: newBaseRepo(txm)}
}

func (w *Writer) CreateFarm(ctx context.Context, f catalog.Farm) (catalog.Farm, error) {
	return insert(ctx, w.baseRepo, farms, f)
}

func (w *Writer) CreateWarehouse(ctx context.Context, wh catalog.Warehouse) (catalog.Warehouse, error) {
	return insert(ctx, w.baseRepo, warehouses, wh)
}

func (w *Writer) CreateStockLocation(ctx context.Context, l catalog.StockLocation) (catalog.StockLocation, error) {
	return insert(ctx, w.baseRepo, stockLocations, l)
}

func (w *Writer) CreateSupplier(ctx context.Context, s catalog.Supplier) (catalog.Supplier, error) {
	return insert(ctx, w.baseRepo, suppliers, s)
}

func (w *Writer) CreateSupplyItem(ctx context.Context, item catalog.SupplyItem) (catalog.SupplyItem, error) {
	return insert(ctx, w.baseRepo, supplyItems, item)
}

func (w *Writer) CreateSeason(ctx context.Context, s catalog.Season) (catalog.Season, error) {
	return insert(ctx, w.baseRepo, seasons, s)
}

func (w *Writer) CreateTask(ctx context.Context, t catalog.Task) (catalog.Task, error) {
	return insert(ctx, w.baseRepo, tasks, t)
}
