package inventory

import (
	"context"
	"fmt"
	"strings"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/core/types"
	"farmstock/internal/domain/catalog"
)

// Validator checks a movement request against the ledger rules.
// Rules run in a fixed order and the first failure is returned.
type Validator struct {
	catalog    Catalog
	guard      AccessGuard
	reconciler *Reconciler
}

// NewValidator creates a new movement validator.
func NewValidator(cat Catalog, guard AccessGuard, reconciler *Reconciler) *Validator {
	return &Validator{
		catalog:    cat,
		guard:      guard,
		reconciler: reconciler,
	}
}

// resolved holds the catalog records a request points at.
type resolved struct {
	warehouse catalog.Warehouse
	lot       catalog.SupplyLot
	location  *catalog.StockLocation
	season    *catalog.Season
	task      *catalog.Task
}

// Validate runs every rule and returns the movement ready for the ledger.
// The caller must hold the stock-key lock when validating an OUT.
func (v *Validator) Validate(ctx context.Context, req MovementRequest) (NewMovement, error) {
	if !req.Type.IsValid() {
		return NewMovement{}, apperror.NewValidation(fmt.Sprintf("unknown movement type %q", req.Type)).
			WithDetail("field", "type")
	}

	res, err := v.resolve(ctx, req)
	if err != nil {
		return NewMovement{}, err
	}

	if err := v.guard.AssertCanAccessFarm(ctx, res.warehouse.FarmID); err != nil {
		return NewMovement{}, err
	}

	if !req.Quantity.IsPositive() {
		return NewMovement{}, apperror.NewValidation("quantity must be a positive number").
			WithDetail("field", "quantity").
			WithDetail("value", req.Quantity.String())
	}

	note := strings.TrimSpace(req.Note)
	if req.Type == MovementAdjust && note == "" {
		return NewMovement{}, apperror.NewAdjustNoteRequired()
	}

	if req.Type == MovementOut {
		if res.season == nil {
			return NewMovement{}, apperror.NewOutSeasonRequired()
		}
		if res.lot.Status != catalog.LotStatusInStock {
			return NewMovement{}, apperror.NewLotNotInStock(res.lot.ID.String(), string(res.lot.Status))
		}
		if res.season.FarmID != res.warehouse.FarmID {
			return NewMovement{}, apperror.NewValidation("season belongs to a different farm than the warehouse").
				WithDetail("season_id", res.season.ID).
				WithDetail("warehouse_id", res.warehouse.ID)
		}
	}

	if res.task != nil && res.season != nil && res.task.SeasonID != res.season.ID {
		return NewMovement{}, apperror.NewValidation("task belongs to a different season").
			WithDetail("task_id", res.task.ID).
			WithDetail("season_id", res.season.ID)
	}

	if req.Type == MovementOut {
		if err := v.checkAvailable(ctx, req); err != nil {
			return NewMovement{}, err
		}
	}

	userID, err := v.guard.CurrentUser(ctx)
	if err != nil {
		return NewMovement{}, err
	}

	m := NewMovement{
		SupplyLotID: res.lot.ID,
		WarehouseID: res.warehouse.ID,
		LocationID:  req.LocationID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		TaskID:      req.TaskID,
		CreatedBy:   &userID,
	}
	if res.season != nil {
		seasonID := res.season.ID
		m.SeasonID = &seasonID
	}
	if note != "" {
		m.Note = &note
	}
	return m, nil
}

// resolve loads every referenced record. A task without a season lends its
// season to the movement.
func (v *Validator) resolve(ctx context.Context, req MovementRequest) (resolved, error) {
	var res resolved

	wh, err := v.catalog.GetWarehouse(ctx, req.WarehouseID)
	if err != nil {
		return res, fmt.Errorf("get warehouse: %w", err)
	}
	res.warehouse = wh

	lot, err := v.catalog.GetSupplyLot(ctx, req.SupplyLotID)
	if err != nil {
		return res, fmt.Errorf("get supply lot: %w", err)
	}
	res.lot = lot

	if req.LocationID != nil {
		loc, err := v.resolveLocation(ctx, wh.ID, *req.LocationID)
		if err != nil {
			return res, err
		}
		res.location = &loc
	}

	if req.SeasonID != nil {
		season, err := v.catalog.GetSeason(ctx, *req.SeasonID)
		if err != nil {
			return res, fmt.Errorf("get season: %w", err)
		}
		res.season = &season
	}

	if req.TaskID != nil {
		task, err := v.catalog.GetTask(ctx, *req.TaskID)
		if err != nil {
			return res, fmt.Errorf("get task: %w", err)
		}
		res.task = &task

		if res.season == nil {
			season, err := v.catalog.GetSeason(ctx, task.SeasonID)
			if err != nil {
				return res, fmt.Errorf("get task season: %w", err)
			}
			res.season = &season
		}
	}

	return res, nil
}

func (v *Validator) resolveLocation(ctx context.Context, warehouseID, locationID id.ID) (catalog.StockLocation, error) {
	loc, err := v.catalog.GetStockLocation(ctx, locationID)
	if err != nil {
		return loc, fmt.Errorf("get stock location: %w", err)
	}
	if loc.WarehouseID != warehouseID {
		return loc, apperror.NewValidation("location does not belong to the warehouse").
			WithDetail("location_id", locationID).
			WithDetail("warehouse_id", warehouseID)
	}
	return loc, nil
}

// checkAvailable requires on-hand >= quantity at the movement's key. A
// location-scoped OUT must also be covered by the warehouse-wide balance so
// that unlocated consumption cannot be counted twice.
func (v *Validator) checkAvailable(ctx context.Context, req MovementRequest) error {
	key := StockKey{SupplyLotID: req.SupplyLotID, WarehouseID: req.WarehouseID, LocationID: req.LocationID}
	available, err := v.reconciler.OnHand(ctx, key)
	if err != nil {
		return err
	}

	if req.LocationID != nil {
		key.LocationID = nil
		total, err := v.reconciler.OnHand(ctx, key)
		if err != nil {
			return err
		}
		available = minQuantity(available, total)
	}

	if available.LessThan(req.Quantity) {
		return apperror.NewInsufficientStock(req.SupplyLotID.String(), req.Quantity.String(), available.String())
	}
	return nil
}

func minQuantity(a, b types.Quantity) types.Quantity {
	if a.LessThan(b) {
		return a
	}
	return b
}
