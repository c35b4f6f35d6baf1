package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/core/types"
	"farmstock/internal/domain/catalog"
)

func TestInventory_EndToEndScenario(t *testing.T) {
	f := newFixture(t)

	// 1. stock-in 100 units
	res := f.stockIn(t, "100")
	lotID := res.Lot.ID
	assert.Equal(t, catalog.LotStatusInStock, res.Lot.Status)
	assert.Equal(t, MovementIn, res.Movement.Type)
	assert.Equal(t, "100", f.onHand(t, lotID))

	// 2. consume 40
	m, err := f.svc.RecordMovement(f.ctx, f.out(lotID, "40"))
	require.NoError(t, err)
	assert.Equal(t, MovementOut, m.Type)
	assert.Equal(t, "40", m.Quantity.String())
	assert.Equal(t, "60", f.onHand(t, lotID))

	// 3. overdraw
	_, err = f.svc.RecordMovement(f.ctx, f.out(lotID, "1000"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "60", appErr.Details["available"])
	assert.Equal(t, "60", f.onHand(t, lotID))

	// 4. adjust needs a note
	adjust := MovementRequest{
		SupplyLotID: lotID,
		WarehouseID: f.warehouse.ID,
		Type:        MovementAdjust,
		Quantity:    types.MustQuantity("10"),
	}
	_, err = f.svc.RecordMovement(f.ctx, adjust)
	assert.True(t, apperror.HasCode(err, apperror.CodeAdjustNoteRequired), "got %v", err)
	assert.Equal(t, "60", f.onHand(t, lotID))

	adjust.Note = "physical recount"
	_, err = f.svc.RecordMovement(f.ctx, adjust)
	require.NoError(t, err)
	assert.Equal(t, "70", f.onHand(t, lotID))

	// 6. listing shows the lot until it is depleted
	page, err := f.svc.ListOnHand(f.ctx, OnHandQuery{WarehouseID: f.warehouse.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, lotID, page.Items[0].SupplyLotID)
	assert.Equal(t, "70", page.Items[0].OnHand.String())

	_, err = f.svc.RecordMovement(f.ctx, f.out(lotID, "70"))
	require.NoError(t, err)
	assert.Equal(t, "0", f.onHand(t, lotID))

	page, err = f.svc.ListOnHand(f.ctx, OnHandQuery{WarehouseID: f.warehouse.ID})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalItems)
}

func TestRecordMovement_RuleOrder(t *testing.T) {
	f := newFixture(t)
	lot := f.stockIn(t, "50").Lot

	stranger := f.userCtx(id.New())
	foreignTask := catalog.Task{ID: id.New(), SeasonID: f.otherSeason.ID}
	f.store.tasks[foreignTask.ID] = foreignTask

	tests := []struct {
		name    string
		mutate  func(r *MovementRequest)
		wantErr string
	}{
		{
			name:    "unknown warehouse beats everything",
			mutate:  func(r *MovementRequest) { r.WarehouseID = f.item.ID; r.Quantity = types.MustQuantity("-1") },
			wantErr: apperror.CodeNotFound,
		},
		{
			name:    "unknown lot",
			mutate:  func(r *MovementRequest) { r.SupplyLotID = f.item.ID },
			wantErr: apperror.CodeNotFound,
		},
		{
			name:    "location of another warehouse",
			mutate:  func(r *MovementRequest) { r.LocationID = &f.otherLocation.ID },
			wantErr: apperror.CodeValidation,
		},
		{
			name:    "unknown task",
			mutate:  func(r *MovementRequest) { r.TaskID = &f.item.ID },
			wantErr: apperror.CodeNotFound,
		},
		{
			name:    "non-positive quantity",
			mutate:  func(r *MovementRequest) { r.Quantity = types.MustQuantity("0"); r.SeasonID = nil },
			wantErr: apperror.CodeValidation,
		},
		{
			name:    "out without season",
			mutate:  func(r *MovementRequest) { r.SeasonID = nil; r.Quantity = types.MustQuantity("999") },
			wantErr: apperror.CodeOutSeasonRequired,
		},
		{
			name:    "season of another farm",
			mutate:  func(r *MovementRequest) { r.SeasonID = &f.otherSeason.ID },
			wantErr: apperror.CodeValidation,
		},
		{
			name:    "task of another season",
			mutate:  func(r *MovementRequest) { r.TaskID = &foreignTask.ID },
			wantErr: apperror.CodeValidation,
		},
		{
			name:    "insufficient stock checked last",
			mutate:  func(r *MovementRequest) { r.Quantity = types.MustQuantity("50.0001") },
			wantErr: apperror.CodeInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.out(lot.ID, "1")
			tt.mutate(&req)

			_, err := f.svc.RecordMovement(f.ctx, req)
			assert.True(t, apperror.HasCode(err, tt.wantErr), "got %v", err)
		})
	}

	t.Run("forbidden before quantity", func(t *testing.T) {
		req := f.out(lot.ID, "-5")
		_, err := f.svc.RecordMovement(stranger, req)
		assert.True(t, apperror.HasCode(err, apperror.CodeForbidden), "got %v", err)
	})

	assert.Equal(t, "50", f.onHand(t, lot.ID))
}

func TestRecordMovement_LotNotInStock(t *testing.T) {
	f := newFixture(t)
	lot := f.stockIn(t, "20").Lot
	require.NoError(t, f.store.UpdateLotStatus(f.ctx, lot.ID, catalog.LotStatusExpired))

	_, err := f.svc.RecordMovement(f.ctx, f.out(lot.ID, "1"))
	assert.True(t, apperror.HasCode(err, apperror.CodeLotNotInStock), "got %v", err)

	// receipts and corrections are still accepted
	_, err = f.svc.RecordMovement(f.ctx, MovementRequest{
		SupplyLotID: lot.ID,
		WarehouseID: f.warehouse.ID,
		Type:        MovementAdjust,
		Quantity:    types.MustQuantity("1"),
		Note:        "found a bag",
	})
	assert.NoError(t, err)
}

func TestRecordMovement_SeasonAdoptedFromTask(t *testing.T) {
	f := newFixture(t)
	lot := f.stockIn(t, "30").Lot

	req := f.out(lot.ID, "5")
	req.SeasonID = nil
	req.TaskID = &f.task.ID

	m, err := f.svc.RecordMovement(f.ctx, req)
	require.NoError(t, err)
	require.NotNil(t, m.SeasonID)
	assert.Equal(t, f.season.ID, *m.SeasonID)
	assert.Equal(t, f.task.ID, *m.TaskID)
	require.NotNil(t, m.CreatedBy)
	assert.Equal(t, f.owner, *m.CreatedBy)
}

func TestRecordMovement_NegativeAdjustRejected(t *testing.T) {
	f := newFixture(t)
	lot := f.stockIn(t, "30").Lot

	_, err := f.svc.RecordMovement(f.ctx, MovementRequest{
		SupplyLotID: lot.ID,
		WarehouseID: f.warehouse.ID,
		Type:        MovementAdjust,
		Quantity:    types.MustQuantity("-5"),
		Note:        "shrinkage",
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
	assert.Equal(t, "30", f.onHand(t, lot.ID))
}

func TestRecordMovement_LocationScopedBalance(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.StockIn(f.ctx, StockInRequest{
		WarehouseID:  f.warehouse.ID,
		LocationID:   &f.location.ID,
		SupplierID:   f.supplier.ID,
		SupplyItemID: f.item.ID,
		Quantity:     types.MustQuantity("10"),
	})
	require.NoError(t, err)
	lotID := res.Lot.ID

	// unlocated consumption drains the warehouse total
	_, err = f.svc.RecordMovement(f.ctx, f.out(lotID, "8"))
	require.NoError(t, err)

	// the location still shows 10 but only 2 exist in the warehouse
	atLocation, err := f.svc.GetOnHand(f.ctx, StockKey{SupplyLotID: lotID, WarehouseID: f.warehouse.ID, LocationID: &f.location.ID})
	require.NoError(t, err)
	assert.Equal(t, "10", atLocation.String())

	req := f.out(lotID, "5")
	req.LocationID = &f.location.ID
	_, err = f.svc.RecordMovement(f.ctx, req)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "2", appErr.Details["available"])
}

func TestRecordMovement_TakesStockKeyLock(t *testing.T) {
	f := newFixture(t)
	lot := f.stockIn(t, "5").Lot
	before := f.store.lockCalls

	_, err := f.svc.RecordMovement(f.ctx, f.out(lot.ID, "1"))
	require.NoError(t, err)
	assert.Equal(t, before+1, f.store.lockCalls)
}

func TestGetOnHand_RequiresAccess(t *testing.T) {
	f := newFixture(t)
	lot := f.stockIn(t, "5").Lot

	_, err := f.svc.GetOnHand(f.userCtx(id.New()), StockKey{SupplyLotID: lot.ID, WarehouseID: f.warehouse.ID})
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden), "got %v", err)

	_, err = f.svc.GetOnHand(f.ctx, StockKey{SupplyLotID: f.item.ID, WarehouseID: f.warehouse.ID})
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}
