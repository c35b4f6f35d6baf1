// Package numerator provides contracts for sequential code generation
// (batch codes for received lots).
package numerator

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "LOT")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
	}
}
