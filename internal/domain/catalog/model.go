// Package catalog holds the read-mostly reference records the inventory
// ledger points at: farms, warehouses, locations, supply items, lots,
// suppliers, seasons and tasks.
package catalog

import (
	"strings"
	"time"

	"farmstock/internal/core/id"
)

// LotStatus is the lifecycle state of a supply lot.
type LotStatus string

const (
	LotStatusInStock  LotStatus = "IN_STOCK"
	LotStatusDepleted LotStatus = "DEPLETED"
	LotStatusExpired  LotStatus = "EXPIRED"
)

// Farm is the ownership root for warehouses and seasons.
type Farm struct {
	ID      id.ID  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	OwnerID id.ID  `db:"owner_id" json:"ownerId"`
}

// Warehouse is a physical storage facility on a farm.
type Warehouse struct {
	ID     id.ID  `db:"id" json:"id"`
	FarmID id.ID  `db:"farm_id" json:"farmId"`
	Name   string `db:"name" json:"name"`
	Type   string `db:"type" json:"type"`
}

// StockLocation is a sub-division of a warehouse.
type StockLocation struct {
	ID          id.ID   `db:"id" json:"id"`
	WarehouseID id.ID   `db:"warehouse_id" json:"warehouseId"`
	Zone        *string `db:"zone" json:"zone,omitempty"`
	Aisle       *string `db:"aisle" json:"aisle,omitempty"`
	Shelf       *string `db:"shelf" json:"shelf,omitempty"`
	Bin         *string `db:"bin" json:"bin,omitempty"`
}

// Label renders the non-empty parts as "zone/aisle/shelf/bin".
func (l StockLocation) Label() string {
	parts := make([]string, 0, 4)
	for _, p := range []*string{l.Zone, l.Aisle, l.Shelf, l.Bin} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, "/")
}

// SupplyItem is the catalog definition of a consumable.
type SupplyItem struct {
	ID         id.ID  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Unit       string `db:"unit" json:"unit"`
	Restricted bool   `db:"restricted" json:"restricted"`
}

// Supplier is a vendor of supply lots.
type Supplier struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SupplyLot is one received batch of a supply item.
type SupplyLot struct {
	ID           id.ID      `db:"id" json:"id"`
	SupplyItemID id.ID      `db:"supply_item_id" json:"supplyItemId"`
	SupplierID   id.ID      `db:"supplier_id" json:"supplierId"`
	BatchCode    string     `db:"batch_code" json:"batchCode"`
	ExpiryDate   *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
	Status       LotStatus  `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// IsExpired reports whether the lot's expiry date is strictly before the day of now.
func (l SupplyLot) IsExpired(now time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return l.ExpiryDate.Before(today)
}

// Season is a growing season of a farm.
type Season struct {
	ID     id.ID  `db:"id" json:"id"`
	FarmID id.ID  `db:"farm_id" json:"farmId"`
	Name   string `db:"name" json:"name"`
}

// Task is a unit of field work attributed to a season.
type Task struct {
	ID       id.ID  `db:"id" json:"id"`
	SeasonID id.ID  `db:"season_id" json:"seasonId"`
	Title    string `db:"title" json:"title"`
}
