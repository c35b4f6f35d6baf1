package numerator

import (
	"context"
	"time"
)

// Generator generates gap-free sequential numbers.
// Implementations live in infrastructure layer.
type Generator interface {
	// GetNextNumber generates the next number for the period's year.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., LOT-2026-00001)
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}
