// Package ledger_repo provides the PostgreSQL implementation of the stock
// movement ledger. The table is insert-only; a trigger rejects UPDATE and DELETE.
package ledger_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"farmstock/internal/core/id"
	"farmstock/internal/core/types"
	"farmstock/internal/domain/inventory"
	"farmstock/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

var movementColumns = []string{
	"id", "supply_lot_id", "warehouse_id", "location_id", "movement_type",
	"quantity", "season_id", "task_id", "note", "created_by", "created_at",
}

// Compile-time interface check.
var _ inventory.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implements inventory.LedgerRepository.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts a movement. created_at is assigned by the database.
func (r *LedgerRepo) Append(ctx context.Context, m inventory.NewMovement) (inventory.StockMovement, error) {
	q := r.builder.Insert(movementsTable).
		Columns(
			"id", "supply_lot_id", "warehouse_id", "location_id", "movement_type",
			"quantity", "season_id", "task_id", "note", "created_by",
		).
		Values(
			id.New(), m.SupplyLotID, m.WarehouseID, m.LocationID, string(m.Type),
			m.Quantity, m.SeasonID, m.TaskID, m.Note, m.CreatedBy,
		).
		Suffix("RETURNING " + strings.Join(movementColumns, ", "))

	sql, args, err := q.ToSql()
	if err != nil {
		return inventory.StockMovement{}, fmt.Errorf("build insert: %w", err)
	}

	var stored inventory.StockMovement
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &stored, sql, args...); err != nil {
		return inventory.StockMovement{}, fmt.Errorf("insert movement: %w", err)
	}
	return stored, nil
}

// totalsRow mirrors the per-type aggregate.
type totalsRow struct {
	In     types.Quantity `db:"in_qty"`
	Out    types.Quantity `db:"out_qty"`
	Adjust types.Quantity `db:"adjust_qty"`
}

func (r *LedgerRepo) totalsQuery() squirrel.SelectBuilder {
	return r.builder.Select(
		"COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'IN'), 0) AS in_qty",
		"COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'OUT'), 0) AS out_qty",
		"COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'ADJUST'), 0) AS adjust_qty",
	).From(movementsTable)
}

// Totals aggregates one stock key in a single statement.
func (r *LedgerRepo) Totals(ctx context.Context, key inventory.StockKey) (inventory.Totals, error) {
	q := r.totalsQuery().
		Where(squirrel.Eq{"supply_lot_id": key.SupplyLotID, "warehouse_id": key.WarehouseID})
	if key.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *key.LocationID})
	}
	return r.getTotals(ctx, q)
}

// LotTotals aggregates a lot across every warehouse.
func (r *LedgerRepo) LotTotals(ctx context.Context, lotID id.ID) (inventory.Totals, error) {
	return r.getTotals(ctx, r.totalsQuery().Where(squirrel.Eq{"supply_lot_id": lotID}))
}

func (r *LedgerRepo) getTotals(ctx context.Context, q squirrel.SelectBuilder) (inventory.Totals, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return inventory.Totals{}, fmt.Errorf("build query: %w", err)
	}

	var row totalsRow
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		return inventory.Totals{}, fmt.Errorf("sum movements: %w", err)
	}
	return inventory.Totals{In: row.In, Out: row.Out, Adjust: row.Adjust}, nil
}

// ListLotIDs returns the distinct lots with movements at the warehouse.
func (r *LedgerRepo) ListLotIDs(ctx context.Context, warehouseID id.ID, locationID *id.ID) ([]id.ID, error) {
	q := r.builder.Select("supply_lot_id").
		Distinct().
		From(movementsTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID})
	if locationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *locationID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lotIDs []id.ID
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lotIDs, sql, args...); err != nil {
		return nil, fmt.Errorf("select lot ids: %w", err)
	}
	return lotIDs, nil
}

// List returns one page of a warehouse's movements, newest first, plus the
// total count matching the filter.
func (r *LedgerRepo) List(ctx context.Context, f inventory.MovementFilter) ([]inventory.StockMovement, int, error) {
	where := movementFilter(f)

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").From(movementsTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	if total == 0 {
		return []inventory.StockMovement{}, 0, nil
	}

	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(where).
		OrderBy("created_at DESC", "id DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var movements []inventory.StockMovement
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select movements: %w", err)
	}
	return movements, total, nil
}

func movementFilter(f inventory.MovementFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"warehouse_id": f.WarehouseID}}
	if f.Type != nil {
		where = append(where, squirrel.Eq{"movement_type": string(*f.Type)})
	}
	if f.CreatedFrom != nil {
		where = append(where, squirrel.GtOrEq{"created_at": *f.CreatedFrom})
	}
	if f.CreatedTo != nil {
		where = append(where, squirrel.LtOrEq{"created_at": *f.CreatedTo})
	}
	return where
}
