package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"farmstock/internal/core/apperror"
	"farmstock/internal/domain/catalog"
	"farmstock/internal/domain/inventory"
)

// DateLayout is the calendar-day format of date query parameters.
const DateLayout = "2006-01-02"

// --- Requests ---

// RecordMovementRequest is the body of POST /inventory/movements.
// Quantity sign and business rules are checked by the ledger validator.
type RecordMovementRequest struct {
	SupplyLotID string           `json:"supplyLotId" binding:"required"`
	WarehouseID string           `json:"warehouseId" binding:"required"`
	LocationID  *string          `json:"locationId"`
	Type        string           `json:"type" binding:"required,oneof=IN OUT ADJUST"`
	Quantity    *decimal.Decimal `json:"quantity" binding:"required,decimal_scale=4"`
	SeasonID    *string          `json:"seasonId"`
	TaskID      *string          `json:"taskId"`
	Note        string           `json:"note" binding:"max=1000"`
}

// ToDomain parses ids and builds the domain request.
func (r RecordMovementRequest) ToDomain() (inventory.MovementRequest, error) {
	var (
		req inventory.MovementRequest
		err error
	)
	if req.SupplyLotID, err = ParseID("supplyLotId", r.SupplyLotID); err != nil {
		return req, err
	}
	if req.WarehouseID, err = ParseID("warehouseId", r.WarehouseID); err != nil {
		return req, err
	}
	if req.LocationID, err = ParseOptionalID("locationId", r.LocationID); err != nil {
		return req, err
	}
	if req.SeasonID, err = ParseOptionalID("seasonId", r.SeasonID); err != nil {
		return req, err
	}
	if req.TaskID, err = ParseOptionalID("taskId", r.TaskID); err != nil {
		return req, err
	}
	if req.Type, err = inventory.ParseMovementType(r.Type); err != nil {
		return req, err
	}
	req.Quantity = *r.Quantity
	req.Note = r.Note
	return req, nil
}

// StockInRequest is the body of POST /inventory/stock-in.
type StockInRequest struct {
	WarehouseID       string           `json:"warehouseId" binding:"required"`
	LocationID        *string          `json:"locationId"`
	SupplierID        string           `json:"supplierId" binding:"required"`
	SupplyItemID      string           `json:"supplyItemId" binding:"required"`
	BatchCode         string           `json:"batchCode" binding:"max=100"`
	ExpiryDate        *string          `json:"expiryDate"`
	Quantity          *decimal.Decimal `json:"quantity" binding:"required,decimal_scale=4"`
	ConfirmRestricted bool             `json:"confirmRestricted"`
	Note              string           `json:"note" binding:"max=1000"`
}

// ToDomain parses ids and dates and builds the domain request.
func (r StockInRequest) ToDomain() (inventory.StockInRequest, error) {
	var (
		req inventory.StockInRequest
		err error
	)
	if req.WarehouseID, err = ParseID("warehouseId", r.WarehouseID); err != nil {
		return req, err
	}
	if req.LocationID, err = ParseOptionalID("locationId", r.LocationID); err != nil {
		return req, err
	}
	if req.SupplierID, err = ParseID("supplierId", r.SupplierID); err != nil {
		return req, err
	}
	if req.SupplyItemID, err = ParseID("supplyItemId", r.SupplyItemID); err != nil {
		return req, err
	}
	if req.ExpiryDate, err = ParseDate("expiryDate", r.ExpiryDate); err != nil {
		return req, err
	}
	req.BatchCode = r.BatchCode
	req.Quantity = *r.Quantity
	req.ConfirmRestricted = r.ConfirmRestricted
	req.Note = r.Note
	return req, nil
}

// ParseDate parses an optional YYYY-MM-DD value as a UTC day.
func ParseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(*raw), time.UTC)
	if err != nil {
		return nil, apperror.NewValidation("invalid "+field+", expected YYYY-MM-DD").WithDetail("field", field)
	}
	return &t, nil
}

// --- Responses ---

// MovementResponse represents a ledger entry.
type MovementResponse struct {
	ID          string    `json:"id"`
	SupplyLotID string    `json:"supplyLotId"`
	WarehouseID string    `json:"warehouseId"`
	LocationID  *string   `json:"locationId,omitempty"`
	Type        string    `json:"type"`
	Quantity    string    `json:"quantity"`
	SeasonID    *string   `json:"seasonId,omitempty"`
	TaskID      *string   `json:"taskId,omitempty"`
	Note        *string   `json:"note,omitempty"`
	CreatedBy   *string   `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromMovement converts a ledger entry to its response.
func FromMovement(m inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID.String(),
		SupplyLotID: m.SupplyLotID.String(),
		WarehouseID: m.WarehouseID.String(),
		LocationID:  idString(m.LocationID),
		Type:        string(m.Type),
		Quantity:    m.Quantity.String(),
		SeasonID:    idString(m.SeasonID),
		TaskID:      idString(m.TaskID),
		Note:        m.Note,
		CreatedBy:   idString(m.CreatedBy),
		CreatedAt:   m.CreatedAt,
	}
}

// LotResponse represents a supply lot.
type LotResponse struct {
	ID           string    `json:"id"`
	SupplyItemID string    `json:"supplyItemId"`
	SupplierID   string    `json:"supplierId"`
	BatchCode    string    `json:"batchCode"`
	ExpiryDate   *string   `json:"expiryDate,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromLot converts a supply lot to its response.
func FromLot(l catalog.SupplyLot) LotResponse {
	return LotResponse{
		ID:           l.ID.String(),
		SupplyItemID: l.SupplyItemID.String(),
		SupplierID:   l.SupplierID.String(),
		BatchCode:    l.BatchCode,
		ExpiryDate:   formatDate(l.ExpiryDate),
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
}

// StockInResponse is the lot created by a stock-in and its opening movement.
type StockInResponse struct {
	Lot      LotResponse      `json:"lot"`
	Movement MovementResponse `json:"movement"`
}

// FromStockInResult converts a stock-in result.
func FromStockInResult(r inventory.StockInResult) StockInResponse {
	return StockInResponse{
		Lot:      FromLot(r.Lot),
		Movement: FromMovement(r.Movement),
	}
}

// OnHandResponse is a single balance.
type OnHandResponse struct {
	SupplyLotID string  `json:"supplyLotId"`
	WarehouseID string  `json:"warehouseId"`
	LocationID  *string `json:"locationId,omitempty"`
	OnHand      string  `json:"onHand"`
}

// OnHandRowResponse is one line of the on-hand listing.
type OnHandRowResponse struct {
	SupplyLotID  string  `json:"supplyLotId"`
	BatchCode    string  `json:"batchCode"`
	SupplyItemID string  `json:"supplyItemId"`
	ItemName     string  `json:"itemName"`
	Unit         string  `json:"unit"`
	LotStatus    string  `json:"lotStatus"`
	ExpiryDate   *string `json:"expiryDate,omitempty"`
	WarehouseID  string  `json:"warehouseId"`
	LocationID   *string `json:"locationId,omitempty"`
	OnHand       string  `json:"onHand"`
}

// FromOnHandRow converts a listing row.
func FromOnHandRow(r inventory.OnHandRow) OnHandRowResponse {
	return OnHandRowResponse{
		SupplyLotID:  r.SupplyLotID.String(),
		BatchCode:    r.BatchCode,
		SupplyItemID: r.SupplyItemID.String(),
		ItemName:     r.ItemName,
		Unit:         r.Unit,
		LotStatus:    string(r.LotStatus),
		ExpiryDate:   formatDate(r.ExpiryDate),
		WarehouseID:  r.WarehouseID.String(),
		LocationID:   idString(r.LocationID),
		OnHand:       r.OnHand.String(),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
