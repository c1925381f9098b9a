// Package ops implements the operations shared by the HTTP, MCP and CLI
// surfaces. Each operation validates its input, talks to the store and
// returns response-shaped output or a *errors.TwineError.
package ops

import (
	"unicode/utf8"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/query"
	"github.com/hpungsan/twine/internal/record"
)

// Import/export format.
const (
	ExportSchemaVersion = "1.0"

	// minImportLine bounds a single JSONL line. A value of MaxValueChars runes
	// can expand to 6 bytes per rune once JSON-escaped.
	minImportLine = 1 << 20
)

// ListOutput is the response of List.
type ListOutput struct {
	Data           []record.View `json:"data"`
	Count          int           `json:"count"`
	FiltersApplied query.Filter  `json:"filters_applied"`
}

// InterpretOutput is the response of Interpret.
type InterpretOutput struct {
	Data             []record.View        `json:"data"`
	Count            int                  `json:"count"`
	InterpretedQuery query.Interpretation `json:"interpreted_query"`
}

// checkValueSize enforces the configured max character count.
func checkValueSize(value string, cfg *config.Config) error {
	if cfg == nil || cfg.MaxValueChars <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(value); n > cfg.MaxValueChars {
		return errors.NewValueTooLarge(cfg.MaxValueChars, n)
	}
	return nil
}

// importLineLimit returns the scanner buffer cap for import files.
func importLineLimit(cfg *config.Config) int {
	limit := minImportLine
	if cfg != nil && cfg.MaxValueChars > 0 {
		if n := cfg.MaxValueChars*6 + 64*1024; n > limit {
			limit = n
		}
	}
	return limit
}
