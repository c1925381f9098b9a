package record

import "github.com/hpungsan/twine/internal/analysis"

// isoMillis renders timestamps as ISO-8601 UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// View is the external response shape of a record.
type View struct {
	ID         string              `json:"id"`
	Value      string              `json:"value"`
	Properties analysis.Properties `json:"properties"`
	CreatedAt  string              `json:"created_at"`
}

// ToView formats a record for responses.
func ToView(r *Record) View {
	return View{
		ID:         r.ID,
		Value:      r.Value,
		Properties: r.Properties,
		CreatedAt:  r.CreatedTime().Format(isoMillis),
	}
}

// ToViews formats a slice of records, never returning nil.
func ToViews(records []*Record) []View {
	views := make([]View, 0, len(records))
	for _, r := range records {
		views = append(views, ToView(r))
	}
	return views
}
