// Package query turns caller input into a canonical Filter and resolves a
// Filter into a Predicate over stored records.
//
// Two paths produce a Filter: ParseParams validates structured parameters,
// ParseNaturalLanguage matches a fixed set of phrase patterns. Both feed
// Resolve, which rejects unsatisfiable length ranges.
package query

// Filter is the canonical set of optional constraints. A nil field means
// "no constraint".
type Filter struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// IsEmpty reports whether the filter has no constraints.
func (f Filter) IsEmpty() bool {
	return f.IsPalindrome == nil && f.MinLength == nil && f.MaxLength == nil &&
		f.WordCount == nil && f.ContainsCharacter == nil
}

// Interpretation pairs a free-text phrase with the filter parsed from it.
type Interpretation struct {
	Original      string `json:"original"`
	ParsedFilters Filter `json:"parsed_filters"`
}

func boolPtr(b bool) *bool       { return &b }
func intPtr(n int) *int          { return &n }
func stringPtr(s string) *string { return &s }
