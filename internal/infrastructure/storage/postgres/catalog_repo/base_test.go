package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstock/internal/core/id"
	"farmstock/internal/domain/catalog"
)

var testBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestSelectByID_SQL(t *testing.T) {
	whID := id.New()

	sql, args, err := selectByID(testBuilder, warehouses, whID).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, farm_id, name, type FROM warehouses WHERE id = $1 LIMIT 1", sql)
	assert.Equal(t, []any{whID.String()}, args)
}

func TestInsertQuery_OmitsDatabaseDefaults(t *testing.T) {
	lot := catalog.SupplyLot{
		ID:           id.New(),
		SupplyItemID: id.New(),
		SupplierID:   id.New(),
		BatchCode:    "LOT-2026-00001",
		Status:       catalog.LotStatusInStock,
	}

	sql, args, err := insertQuery(testBuilder, supplyLots, lot, "created_at").ToSql()
	require.NoError(t, err)

	// SetMap sorts columns
	assert.Equal(t,
		"INSERT INTO supply_lots (batch_code,expiry_date,id,status,supplier_id,supply_item_id) VALUES ($1,$2,$3,$4,$5,$6) "+
			"RETURNING id, supply_item_id, supplier_id, batch_code, expiry_date, status, created_at",
		sql)
	require.Len(t, args, 6)
	assert.Equal(t, "LOT-2026-00001", args[0])
	assert.Equal(t, catalog.LotStatusInStock, args[3])
}

func TestLotsByStatusQuery_SQL(t *testing.T) {
	r := NewLotRepo(nil)

	sql, args, err := r.lotsByStatusQuery([]catalog.LotStatus{catalog.LotStatusInStock, catalog.LotStatusDepleted}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, supply_item_id, supplier_id, batch_code, expiry_date, status, created_at FROM supply_lots "+
			"WHERE status IN ($1,$2) ORDER BY created_at, id",
		sql)
	assert.Equal(t, []any{"IN_STOCK", "DEPLETED"}, args)
}

func TestTables_EntityNames(t *testing.T) {
	assert.Equal(t, "supply lot", supplyLots.entity)
	assert.Equal(t, []string{"id", "season_id", "title"}, tasks.columns)
	assert.Equal(t, []string{"id", "warehouse_id", "zone", "aisle", "shelf", "bin"}, stockLocations.columns)
}
