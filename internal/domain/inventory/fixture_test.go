package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appctx "farmstock/internal/core/context"
	"farmstock/internal/core/id"
	"farmstock/internal/core/security"
	"farmstock/internal/core/types"
	"farmstock/internal/domain/catalog"
)

type fixture struct {
	store *memStore
	svc   *Service
	ctx   context.Context

	owner     id.ID
	farm      catalog.Farm
	warehouse catalog.Warehouse
	location  catalog.StockLocation
	supplier  catalog.Supplier
	item      catalog.SupplyItem
	pesticide catalog.SupplyItem
	season    catalog.Season
	task      catalog.Task

	// records on a second farm owned by someone else
	otherWarehouse catalog.Warehouse
	otherLocation  catalog.StockLocation
	otherSeason    catalog.Season
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := newMemStore()
	f := &fixture{store: s, owner: id.New()}

	f.farm = catalog.Farm{ID: id.New(), Name: "North Field", OwnerID: f.owner}
	otherFarm := catalog.Farm{ID: id.New(), Name: "Neighbour", OwnerID: id.New()}
	s.farms[f.farm.ID] = f.farm
	s.farms[otherFarm.ID] = otherFarm

	f.warehouse = catalog.Warehouse{ID: id.New(), FarmID: f.farm.ID, Name: "Barn", Type: "DRY"}
	f.otherWarehouse = catalog.Warehouse{ID: id.New(), FarmID: otherFarm.ID, Name: "Silo", Type: "DRY"}
	s.warehouses[f.warehouse.ID] = f.warehouse
	s.warehouses[f.otherWarehouse.ID] = f.otherWarehouse

	zone := "A"
	f.location = catalog.StockLocation{ID: id.New(), WarehouseID: f.warehouse.ID, Zone: &zone}
	f.otherLocation = catalog.StockLocation{ID: id.New(), WarehouseID: f.otherWarehouse.ID, Zone: &zone}
	s.locations[f.location.ID] = f.location
	s.locations[f.otherLocation.ID] = f.otherLocation

	f.supplier = catalog.Supplier{ID: id.New(), Name: "AgroSupply"}
	s.suppliers[f.supplier.ID] = f.supplier

	f.item = catalog.SupplyItem{ID: id.New(), Name: "Urea fertilizer", Unit: "kg"}
	f.pesticide = catalog.SupplyItem{ID: id.New(), Name: "Paraquat", Unit: "l", Restricted: true}
	s.items[f.item.ID] = f.item
	s.items[f.pesticide.ID] = f.pesticide

	f.season = catalog.Season{ID: id.New(), FarmID: f.farm.ID, Name: "Spring 2026"}
	f.otherSeason = catalog.Season{ID: id.New(), FarmID: otherFarm.ID, Name: "Neighbour spring"}
	s.seasons[f.season.ID] = f.season
	s.seasons[f.otherSeason.ID] = f.otherSeason

	f.task = catalog.Task{ID: id.New(), SeasonID: f.season.ID, Title: "Top dressing"}
	s.tasks[f.task.ID] = f.task

	f.svc = NewService(Deps{
		Ledger:    s,
		Lots:      s,
		Catalog:   s,
		Guard:     security.NewFarmGuard(s),
		Locker:    s,
		TxManager: s,
		Numerator: s,
	})
	f.ctx = f.userCtx(f.owner)
	return f
}

func (f *fixture) userCtx(userID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: userID.String()})
}

func (f *fixture) stockIn(t *testing.T, qty string) StockInResult {
	t.Helper()
	res, err := f.svc.StockIn(f.ctx, StockInRequest{
		WarehouseID:  f.warehouse.ID,
		SupplierID:   f.supplier.ID,
		SupplyItemID: f.item.ID,
		BatchCode:    "B-" + qty,
		Quantity:     types.MustQuantity(qty),
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) onHand(t *testing.T, lotID id.ID) string {
	t.Helper()
	qty, err := f.svc.GetOnHand(f.ctx, StockKey{SupplyLotID: lotID, WarehouseID: f.warehouse.ID})
	require.NoError(t, err)
	return qty.String()
}

func (f *fixture) out(lotID id.ID, qty string) MovementRequest {
	return MovementRequest{
		SupplyLotID: lotID,
		WarehouseID: f.warehouse.ID,
		Type:        MovementOut,
		Quantity:    types.MustQuantity(qty),
		SeasonID:    &f.season.ID,
	}
}

func ptr[T any](v T) *T { return &v }
