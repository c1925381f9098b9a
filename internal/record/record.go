package record

import (
	"time"

	"github.com/hpungsan/twine/internal/analysis"
)

// Record is one analyzed, stored string.
// Records are never updated in place; Properties is computed once by New.
type Record struct {
	// ID is the SHA-256 fingerprint of Value (also Properties.SHA256Hash)
	ID string

	// Value is the original text, unique across all records
	Value string

	// Properties is the derived bundle, immutable once stored
	Properties analysis.Properties

	// CreatedAt is the Unix timestamp in milliseconds when the record was stored
	CreatedAt int64
}

// New analyzes value and builds a record stamped with now.
func New(value string, now time.Time) *Record {
	props := analysis.Analyze(value)
	return &Record{
		ID:         props.SHA256Hash,
		Value:      value,
		Properties: props,
		CreatedAt:  now.UnixMilli(),
	}
}

// CreatedTime returns CreatedAt as a UTC time.
func (r *Record) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt).UTC()
}
