package query

import (
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/record"
)

// Predicate is the resolved form of a Filter: a boolean test over records.
// It keeps its Filter so stores can translate it into their own query
// language and use Match only as the final check.
type Predicate struct {
	filter Filter
}

// Resolve validates f and returns its Predicate. Both length bounds present
// with min_length > max_length is a CONFLICTING_FILTERS error. An empty
// Filter resolves to a Predicate that matches every record.
func Resolve(f Filter) (Predicate, error) {
	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return Predicate{}, errors.NewConflictingFilters(*f.MinLength, *f.MaxLength)
	}
	return Predicate{filter: f}, nil
}

// MatchAll is the Predicate of the empty Filter.
func MatchAll() Predicate {
	return Predicate{}
}

// Filter returns the canonical filter this predicate was resolved from.
func (p Predicate) Filter() Filter {
	return p.filter
}

// Match reports whether r satisfies every constraint of the filter.
func (p Predicate) Match(r *record.Record) bool {
	f := p.filter
	props := r.Properties

	if f.IsPalindrome != nil && props.IsPalindrome != *f.IsPalindrome {
		return false
	}
	if f.MinLength != nil && props.Length < *f.MinLength {
		return false
	}
	if f.MaxLength != nil && props.Length > *f.MaxLength {
		return false
	}
	if f.WordCount != nil && props.WordCount != *f.WordCount {
		return false
	}
	if f.ContainsCharacter != nil && !containsFold(r.Value, *f.ContainsCharacter) {
		return false
	}
	return true
}

// containsFold reports whether s contains sub under Unicode case folding.
func containsFold(s, sub string) bool {
	if utf8.RuneCountInString(sub) != 1 {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}
	for _, r := range s {
		if strings.EqualFold(string(r), sub) {
			return true
		}
	}
	return false
}
