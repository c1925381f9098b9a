package ops

import (
	"context"
	"net/url"

	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/query"
	"github.com/hpungsan/twine/internal/record"
)

// List returns every record matching the structured filter parameters.
// Malformed parameters yield INVALID_REQUEST; min_length > max_length
// yields CONFLICTING_FILTERS.
func List(ctx context.Context, store *db.Store, params url.Values) (*ListOutput, error) {
	filter, err := query.ParseParams(params)
	if err != nil {
		return nil, err
	}

	records, err := find(ctx, store, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Data:           record.ToViews(records),
		Count:          len(records),
		FiltersApplied: filter,
	}, nil
}

// Interpret infers a filter from a free-text phrase and returns the matches
// together with the interpretation.
func Interpret(ctx context.Context, store *db.Store, phrase string) (*InterpretOutput, error) {
	if phrase == "" {
		return nil, errors.NewInvalidParameter("query", "is required")
	}

	interp := query.Interpret(phrase)
	records, err := find(ctx, store, interp.ParsedFilters)
	if err != nil {
		return nil, err
	}

	return &InterpretOutput{
		Data:             record.ToViews(records),
		Count:            len(records),
		InterpretedQuery: interp,
	}, nil
}

func find(ctx context.Context, store *db.Store, filter query.Filter) ([]*record.Record, error) {
	pred, err := query.Resolve(filter)
	if err != nil {
		return nil, err
	}
	return store.FindAll(ctx, pred)
}
