package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/domain/catalog"
	"farmstock/internal/domain/inventory"
	"farmstock/internal/infrastructure/storage/postgres"
)

var _ inventory.LotStore = (*LotRepo)(nil)

// LotRepo implements inventory.LotStore.
type LotRepo struct {
	baseRepo
}

// NewLotRepo creates a supply lot repository.
func NewLotRepo(txm *postgres.TxManager) *LotRepo {
	return &LotRepo{baseRepo: newBaseRepo(txm)}
}

// CreateLot inserts a lot; created_at comes from the database.
func (r *LotRepo) CreateLot(ctx context.Context, lot catalog.SupplyLot) (catalog.SupplyLot, error) {
	return insert(ctx, r.baseRepo, supplyLots, lot, "created_at")
}

// UpdateLotStatus sets the lifecycle status of a lot.
func (r *LotRepo) UpdateLotStatus(ctx context.Context, lotID id.ID, status catalog.LotStatus) error {
	sql, args, err := r.builder.Update(supplyLots.name).
		Set("status", string(status)).
		Where(squirrel.Eq{"id": lotID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update lot status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(supplyLots.entity, lotID)
	}
	return nil
}

func (r *LotRepo) lotsByStatusQuery(statuses []catalog.LotStatus) squirrel.SelectBuilder {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return r.builder.Select(supplyLots.columns...).
		From(supplyLots.name).
		Where(squirrel.Eq{"status": values}).
		OrderBy("created_at", "id")
}

// ListLotsByStatus returns every lot in one of the given statuses, oldest first.
func (r *LotRepo) ListLotsByStatus(ctx context.Context, statuses ...catalog.LotStatus) ([]catalog.SupplyLot, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	sql, args, err := r.lotsByStatusQuery(statuses).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lots []catalog.SupplyLot
	if err := pgxscan.Select(ctx, r.querier(ctx), &lots, sql, args...); err != nil {
		return nil, fmt.Errorf("select lots: %w", err)
	}
	return lots, nil
}
