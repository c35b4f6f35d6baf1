package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"farmstock/internal/core/id"
	"farmstock/internal/domain/catalog"
)

type auditFields struct {
	CreatedAt time.Time `db:"created_at"`
}

type embeddedRecord struct {
	auditFields
	ID       id.ID  `db:"id"`
	Name     string `db:"name"`
	Internal string `db:"-"`
	Untagged string
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "supply_item_id", "supplier_id", "batch_code", "expiry_date", "status", "created_at"},
		ExtractDBColumns[catalog.SupplyLot]())

	assert.Equal(t, []string{"created_at", "id", "name"}, ExtractDBColumns[embeddedRecord]())
}

func TestExtractDBColumns_ReturnsCopy(t *testing.T) {
	cols := ExtractDBColumns[catalog.Farm]()
	cols[0] = "mutated"

	assert.Equal(t, "id", ExtractDBColumns[catalog.Farm]()[0])
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	rec := embeddedRecord{
		auditFields: auditFields{CreatedAt: now},
		ID:          id.New(),
		Name:        "Barn",
		Internal:    "skip",
		Untagged:    "skip",
	}

	m := StructToMap(&rec)

	assert.Len(t, m, 3)
	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, "Barn", m["name"])
	assert.Equal(t, now, m["created_at"])
}

func TestStructToMap_Omit(t *testing.T) {
	lot := catalog.SupplyLot{ID: id.New(), BatchCode: "LOT-1", Status: catalog.LotStatusInStock}

	m := StructToMap(lot, "created_at")

	assert.NotContains(t, m, "created_at")
	assert.Equal(t, catalog.LotStatusInStock, m["status"])
	assert.Nil(t, m["expiry_date"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap((*catalog.Farm)(nil)))
}
