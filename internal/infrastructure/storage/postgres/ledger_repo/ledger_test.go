package ledger_repo

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstock/internal/core/id"
	"farmstock/internal/domain/inventory"
)

func TestMovementFilter_SQL(t *testing.T) {
	wh := id.New()
	out := inventory.MovementOut
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id").From(movementsTable).
		Where(movementFilter(inventory.MovementFilter{WarehouseID: wh, Type: &out, CreatedFrom: &from, CreatedTo: &to})).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM stock_movements WHERE (warehouse_id = $1 AND movement_type = $2 AND created_at >= $3 AND created_at <= $4)",
		sql)
	// uuid values go through driver.Valuer
	assert.Equal(t, []any{wh.String(), "OUT", from, to}, args)
}

func TestTotals_SQL(t *testing.T) {
	r := NewLedgerRepo(nil)
	lot, wh, loc := id.New(), id.New(), id.New()

	sql, args, err := r.totalsQuery().
		Where(squirrel.Eq{"supply_lot_id": lot, "warehouse_id": wh}).
		Where(squirrel.Eq{"location_id": loc}).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'OUT'), 0) AS out_qty")
	assert.Contains(t, sql, "WHERE supply_lot_id = $1 AND warehouse_id = $2 AND location_id = $3")
	assert.Equal(t, []any{lot.String(), wh.String(), loc.String()}, args)
}
