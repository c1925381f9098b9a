package record

import (
	"fmt"

	"github.com/hpungsan/twine/internal/analysis"
)

// ExportRecord represents a record line in JSONL export format.
// It is also used for parsing the header line during import.
type ExportRecord struct {
	// Header detection field - true only for header line
	TwineExport bool `json:"_twine_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	ID         string               `json:"id,omitempty"`
	Value      *string              `json:"value,omitempty"`
	Properties *analysis.Properties `json:"properties,omitempty"` // IGNORED on import, recomputed
	CreatedAt  int64                `json:"created_at,omitempty"`
}

// ToExportRecord converts a Record for export.
func ToExportRecord(r *Record) *ExportRecord {
	value := r.Value
	props := r.Properties
	return &ExportRecord{
		ID:         r.ID,
		Value:      &value,
		Properties: &props,
		CreatedAt:  r.CreatedAt,
	}
}

// ToRecord converts an ExportRecord back to a Record, recomputing the
// properties. The stored id must match the fingerprint of the value.
func (e *ExportRecord) ToRecord() (*Record, error) {
	if e.Value == nil {
		return nil, fmt.Errorf("missing value field")
	}
	props := analysis.Analyze(*e.Value)
	if e.ID != "" && e.ID != props.SHA256Hash {
		return nil, fmt.Errorf("id %q does not match sha256 of value", e.ID)
	}
	return &Record{
		ID:         props.SHA256Hash,
		Value:      *e.Value,
		Properties: props,
		CreatedAt:  e.CreatedAt,
	}, nil
}
