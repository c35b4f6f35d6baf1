// Package numerator provides the PostgreSQL implementation of sequential
// code generation. It implements core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"time"

	corenumerator "farmstock/internal/core/numerator"
	"farmstock/internal/infrastructure/storage/postgres"
)

// QuerierProvider resolves the querier for the current context.
// *postgres.TxManager satisfies it.
type QuerierProvider interface {
	GetQuerier(ctx context.Context) postgres.Querier
}

// Service hands out gap-free numbers from sys_sequences.
//
// The counter row is upserted through the ambient querier, so when called
// inside a transaction the increment commits or rolls back with it.
type Service struct {
	queriers QuerierProvider
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service.
func New(queriers QuerierProvider) *Service {
	return &Service{queriers: queriers}
}

const nextValueSQL = `
INSERT INTO sys_sequences (sequence_type, year, current_val)
VALUES ($1, $2, 1)
ON CONFLICT (sequence_type, year) DO UPDATE SET current_val = sys_sequences.current_val + 1
RETURNING current_val`

// GetNextNumber returns the next number for cfg.Prefix in the period's year.
// Pattern: PREFIX-YEAR-XXXXX (e.g. LOT-2026-00001).
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time) (string, error) {
	if s == nil || s.queriers == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	err := s.queriers.GetQuerier(ctx).
		QueryRow(ctx, nextValueSQL, cfg.Prefix, period.Year()).
		Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", cfg.Prefix, err)
	}

	return FormatNumber(cfg, period, num), nil
}

// FormatNumber renders a sequence value with the configured prefix, year
// and padding.
func FormatNumber(cfg corenumerator.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}
