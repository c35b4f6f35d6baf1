// Package inventory implements the stock ledger: an append-only log of
// stock movements from which on-hand quantities are derived on demand.
package inventory

import (
	"fmt"
	"time"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/core/types"
	"farmstock/internal/domain/catalog"
)

// MovementType is the kind of quantity event recorded in the ledger.
type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

// IsValid reports whether t is a known movement type.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust:
		return true
	}
	return false
}

// ParseMovementType validates s as a movement type.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(s)
	if !t.IsValid() {
		return "", apperror.NewValidation(fmt.Sprintf("unknown movement type %q", s)).
			WithDetail("field", "type")
	}
	return t, nil
}

// StockMovement is one immutable ledger entry.
// Quantity is always a positive magnitude; Type carries the direction.
type StockMovement struct {
	ID          id.ID          `db:"id" json:"id"`
	SupplyLotID id.ID          `db:"supply_lot_id" json:"supplyLotId"`
	WarehouseID id.ID          `db:"warehouse_id" json:"warehouseId"`
	LocationID  *id.ID         `db:"location_id" json:"locationId,omitempty"`
	Type        MovementType   `db:"movement_type" json:"type"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	SeasonID    *id.ID         `db:"season_id" json:"seasonId,omitempty"`
	TaskID      *id.ID         `db:"task_id" json:"taskId,omitempty"`
	Note        *string        `db:"note" json:"note,omitempty"`
	CreatedBy   *id.ID         `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

// Delta returns the signed effect of the movement on on-hand quantity.
func (m StockMovement) Delta() types.Quantity {
	if m.Type == MovementOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// NewMovement is a validated movement descriptor handed to the ledger.
// The ledger assigns ID and CreatedAt.
type NewMovement struct {
	SupplyLotID id.ID
	WarehouseID id.ID
	LocationID  *id.ID
	Type        MovementType
	Quantity    types.Quantity
	SeasonID    *id.ID
	TaskID      *id.ID
	Note        *string
	CreatedBy   *id.ID
}

// MovementRequest is the caller's intent to record a movement.
type MovementRequest struct {
	SupplyLotID id.ID
	WarehouseID id.ID
	LocationID  *id.ID
	Type        MovementType
	Quantity    types.Quantity
	SeasonID    *id.ID
	TaskID      *id.ID
	Note        string
}

// StockKey identifies the balance a movement affects.
// A nil LocationID means the whole warehouse.
type StockKey struct {
	SupplyLotID id.ID
	WarehouseID id.ID
	LocationID  *id.ID
}

// Totals are per-type quantity sums over a set of ledger entries.
type Totals struct {
	In     types.Quantity
	Out    types.Quantity
	Adjust types.Quantity
}

// Add folds one movement into the totals.
func (t Totals) Add(m StockMovement) Totals {
	switch m.Type {
	case MovementIn:
		t.In = t.In.Add(m.Quantity)
	case MovementOut:
		t.Out = t.Out.Add(m.Quantity)
	case MovementAdjust:
		t.Adjust = t.Adjust.Add(m.Quantity)
	}
	return t
}

// OnHand returns IN + ADJUST - OUT.
func (t Totals) OnHand() types.Quantity {
	return t.In.Add(t.Adjust).Sub(t.Out)
}

// StockInRequest receives a new lot into a warehouse.
type StockInRequest struct {
	WarehouseID       id.ID
	LocationID        *id.ID
	SupplierID        id.ID
	SupplyItemID      id.ID
	BatchCode         string
	ExpiryDate        *time.Time
	Quantity          types.Quantity
	ConfirmRestricted bool
	Note              string
}

// StockInResult is the lot created by a stock-in and its opening movement.
type StockInResult struct {
	Lot      catalog.SupplyLot `json:"lot"`
	Movement StockMovement     `json:"movement"`
}

// OnHandRow is one line of the on-hand listing.
type OnHandRow struct {
	SupplyLotID  id.ID             `json:"supplyLotId"`
	BatchCode    string            `json:"batchCode"`
	SupplyItemID id.ID             `json:"supplyItemId"`
	ItemName     string            `json:"itemName"`
	Unit         string            `json:"unit"`
	LotStatus    catalog.LotStatus `json:"lotStatus"`
	ExpiryDate   *time.Time        `json:"expiryDate,omitempty"`
	WarehouseID  id.ID             `json:"warehouseId"`
	LocationID   *id.ID            `json:"locationId,omitempty"`
	OnHand       types.Quantity    `json:"onHand"`
}

// OnHandQuery filters the on-hand listing.
type OnHandQuery struct {
	WarehouseID id.ID
	LocationID  *id.ID
	SupplyLotID *id.ID
	Search      string
	PageRequest
}

// MovementQuery filters the movement history listing.
// From and To are calendar days; the range covers From 00:00 through To 23:59:59.
type MovementQuery struct {
	WarehouseID id.ID
	Type        *MovementType
	From        *time.Time
	To          *time.Time
	PageRequest
}

// MovementFilter is the storage-level form of MovementQuery.
type MovementFilter struct {
	WarehouseID id.ID
	Type        *MovementType
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}
