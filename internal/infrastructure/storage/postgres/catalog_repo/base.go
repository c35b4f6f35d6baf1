// Package catalog_repo provides PostgreSQL access to the reference records
// the ledger points at. Reads join the ambient transaction when one exists.
package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/infrastructure/storage/postgres"
)

// table describes one catalog table mapped onto T by its "db" tags.
type table[T any] struct {
	name    string
	entity  string
	columns []string
}

func newTable[T any](name, entity string) table[T] {
	return table[T]{
		name:    name,
		entity:  entity,
		columns: postgres.ExtractDBColumns[T](),
	}
}

// baseRepo holds what every catalog repository needs.
type baseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func newBaseRepo(txm *postgres.TxManager) baseRepo {
	return baseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r baseRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func selectByID[T any](b squirrel.StatementBuilderType, t table[T], entityID id.ID) squirrel.SelectBuilder {
	return b.Select(t.columns...).
		From(t.name).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)
}

// getByID loads one row or returns NOT_FOUND.
func getByID[T any](ctx context.Context, r baseRepo, t table[T], entityID id.ID) (T, error) {
	var dst T

	sql, args, err := selectByID(r.builder, t, entityID).ToSql()
	if err != nil {
		return dst, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &dst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return dst, apperror.NewNotFound(t.entity, entityID)
		}
		return dst, fmt.Errorf("get %s: %w", t.entity, err)
	}
	return dst, nil
}

func insertQuery[T any](b squirrel.StatementBuilderType, t table[T], v T, omit ...string) squirrel.InsertBuilder {
	return b.Insert(t.name).
		SetMap(postgres.StructToMap(v, omit...)).
		Suffix("RETURNING " + strings.Join(t.columns, ", "))
}

// insert writes v and returns the stored row, including database defaults
// for the omitted columns.
func insert[T any](ctx context.Context, r baseRepo, t table[T], v T, omit ...string) (T, error) {
	var stored T

	sql, args, err := insertQuery(r.builder, t, v, omit...).ToSql()
	if err != nil {
		return stored, fmt.Errorf("build insert: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &stored, sql, args...); err != nil {
		return stored, fmt.Errorf("insert %s: %w", t.entity, err)
	}
	return stored, nil
}
