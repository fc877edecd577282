package tablerecon

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
)

// Reconstruction Configuration Constants
// These constants define the default behavior of the reconstruction heuristics

// Geometry Quanta
const (
	// DefaultRowBucket is the width of the vertical bucket used to group tokens into rows
	DefaultRowBucket = 5.0

	// DefaultColumnQuantum is the rounding step applied to x positions when building a column signature
	DefaultColumnQuantum = 10.0

	// DefaultColumnTolerance is the maximum distance between a position and the signature to count as aligned
	DefaultColumnTolerance = 20.0

	// DefaultSignatureOverlap is the minimum share of aligned positions for a row to continue a region (0.0-1.0)
	DefaultSignatureOverlap = 0.5
)

// Region Size Thresholds
const (
	// DefaultMinRegionTokens is the minimum number of tokens between two titles to attempt a table
	DefaultMinRegionTokens = 3

	// DefaultMinTitledRows is the minimum number of rows (header + data) in a title-bounded region
	DefaultMinTitledRows = 2

	// DefaultMinStructuralRows is the minimum run of qualifying rows in a structure-bounded region
	DefaultMinStructuralRows = 3

	// DefaultMinRowTokens is the minimum number of tokens for a row to qualify as a table row
	DefaultMinRowTokens = 2
)

// Strategy names accepted by Config.Strategy and Config.Fallback.
const (
	StrategyAuto      = "auto"
	StrategyTitle     = "title"
	StrategyStructure = "structure"
	StrategySignature = "signature"
)

// Title slicing modes accepted by Config.TitleSlicing.
const (
	SliceByStream   = "stream"
	SliceByVertical = "vertical"
)

// StructuralTitlePrefix prefixes the synthesized title of tables found without a title token.
const StructuralTitlePrefix = "Structural Table"

// Config holds the tunable parameters of the reconstruction engine
type Config struct {
	RowBucket           float64 `json:"row_bucket" toml:"row_bucket" validate:"gt=0"`                     // Vertical bucket width for row clustering
	ColumnQuantum       float64 `json:"column_quantum" toml:"column_quantum" validate:"gt=0"`             // Rounding step for column signatures
	ColumnTolerance     float64 `json:"column_tolerance" toml:"column_tolerance" validate:"gte=0"`        // Alignment tolerance against the signature
	SignatureOverlap    float64 `json:"signature_overlap" toml:"signature_overlap" validate:"gte=0,lte=1"` // Share of aligned positions to continue a region
	MinRegionTokens     int     `json:"min_region_tokens" toml:"min_region_tokens" validate:"gte=1"`      // Minimum tokens in a title-bounded region
	MinTitledRows       int     `json:"min_titled_rows" toml:"min_titled_rows" validate:"gte=2"`          // Minimum rows in a title-bounded region
	MinStructuralRows   int     `json:"min_structural_rows" toml:"min_structural_rows" validate:"gte=2"`  // Minimum run length in a structure-bounded region
	MinRowTokens        int     `json:"min_row_tokens" toml:"min_row_tokens" validate:"gte=1"`            // Minimum tokens for a qualifying row
	Strategy            string  `json:"strategy" toml:"strategy" validate:"oneof=auto title structure signature"`
	Fallback            string  `json:"fallback" toml:"fallback" validate:"oneof=structure signature"`
	TitleSlicing        string  `json:"title_slicing" toml:"title_slicing" validate:"oneof=stream vertical"`
	ExcludeFootnoteRows bool    `json:"exclude_footnote_rows" toml:"exclude_footnote_rows"` // Drop footnote definitions from table regions
	Workers             int     `json:"workers" toml:"workers" validate:"gte=0"`             // Page workers, 0 means runtime.NumCPU()
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() Config {
	return Config{
		RowBucket:           DefaultRowBucket,
		ColumnQuantum:       DefaultColumnQuantum,
		ColumnTolerance:     DefaultColumnTolerance,
		SignatureOverlap:    DefaultSignatureOverlap,
		MinRegionTokens:     DefaultMinRegionTokens,
		MinTitledRows:       DefaultMinTitledRows,
		MinStructuralRows:   DefaultMinStructuralRows,
		MinRowTokens:        DefaultMinRowTokens,
		Strategy:            StrategyAuto,
		Fallback:            StrategyStructure,
		TitleSlicing:        SliceByStream,
		ExcludeFootnoteRows: true,
		Workers:             0,
	}
}

var validate = validator.New()

// ValidateConfig validates a reconstruction configuration
func ValidateConfig(config Config) error {
	if err := validate.Struct(config); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
