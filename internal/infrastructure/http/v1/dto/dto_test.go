package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/domain/inventory"
)

func TestDecimalScale(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerOn(v))

	type body struct {
		Quantity *decimal.Decimal `validate:"required,decimal_scale=4"`
	}

	tests := []struct {
		value string
		valid bool
	}{
		{"40", true},
		{"0.0001", true},
		{"12.5000", true},
		{"-3.25", true},
		{"0.00001", false},
		{"1.123456", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			d := decimal.RequireFromString(tt.value)
			err := v.Struct(body{Quantity: &d})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.Error(t, v.Struct(body{}), "quantity is required")
}

func TestRecordMovementRequest_ToDomain(t *testing.T) {
	lot, wh, season := id.New(), id.New(), id.New()
	qty := decimal.RequireFromString("12.5")
	empty := ""
	seasonStr := season.String()

	req, err := RecordMovementRequest{
		SupplyLotID: lot.String(),
		WarehouseID: wh.String(),
		LocationID:  &empty,
		Type:        "OUT",
		Quantity:    &qty,
		SeasonID:    &seasonStr,
		Note:        "spraying",
	}.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, lot, req.SupplyLotID)
	assert.Equal(t, wh, req.WarehouseID)
	assert.Nil(t, req.LocationID)
	assert.Equal(t, inventory.MovementOut, req.Type)
	assert.Equal(t, "12.5", req.Quantity.String())
	require.NotNil(t, req.SeasonID)
	assert.Equal(t, season, *req.SeasonID)
	assert.Nil(t, req.TaskID)
	assert.Equal(t, "spraying", req.Note)
}

func TestRecordMovementRequest_InvalidID(t *testing.T) {
	qty := decimal.NewFromInt(1)
	bad := "not-a-uuid"

	_, err := RecordMovementRequest{
		SupplyLotID: id.New().String(),
		WarehouseID: id.New().String(),
		TaskID:      &bad,
		Type:        "IN",
		Quantity:    &qty,
	}.ToDomain()

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "taskId", appErr.Details["field"])
}

func TestStockInRequest_ToDomain(t *testing.T) {
	qty := decimal.NewFromInt(100)
	expiry := "2027-02-28"

	req, err := StockInRequest{
		WarehouseID:       id.New().String(),
		SupplierID:        id.New().String(),
		SupplyItemID:      id.New().String(),
		ExpiryDate:        &expiry,
		Quantity:          &qty,
		ConfirmRestricted: true,
	}.ToDomain()
	require.NoError(t, err)

	require.NotNil(t, req.ExpiryDate)
	assert.Equal(t, "2027-02-28", req.ExpiryDate.Format(DateLayout))
	assert.True(t, req.ConfirmRestricted)
	assert.Empty(t, req.BatchCode)

	bad := "28/02/2027"
	_, err = StockInRequest{
		WarehouseID:  id.New().String(),
		SupplierID:   id.New().String(),
		SupplyItemID: id.New().String(),
		ExpiryDate:   &bad,
		Quantity:     &qty,
	}.ToDomain()
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
}

func TestFromMovement(t *testing.T) {
	loc := id.New()
	note := "recount"
	m := inventory.StockMovement{
		ID:          id.New(),
		SupplyLotID: id.New(),
		WarehouseID: id.New(),
		LocationID:  &loc,
		Type:        inventory.MovementAdjust,
		Quantity:    decimal.RequireFromString("3.5"),
		Note:        &note,
	}

	resp := FromMovement(m)

	assert.Equal(t, "ADJUST", resp.Type)
	assert.Equal(t, "3.5", resp.Quantity)
	require.NotNil(t, resp.LocationID)
	assert.Equal(t, loc.String(), *resp.LocationID)
	assert.Nil(t, resp.SeasonID)
	assert.Equal(t, &note, resp.Note)
}

func TestFromPage(t *testing.T) {
	p := inventory.Page[int]{Items: []int{1, 2}, Page: 1, Size: 2, TotalItems: 5, TotalPages: 3}

	out := FromPage(p, func(v int) string { return decimal.NewFromInt(int64(v)).String() })

	assert.Equal(t, []string{"1", "2"}, out.Items)
	assert.Equal(t, 5, out.TotalItems)
	assert.Equal(t, 3, out.TotalPages)
}
