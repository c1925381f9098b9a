package ops

import (
	"context"
	"time"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/record"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Value string // required, non-empty
}

// Create analyzes a value and stores it. Values are unique: submitting a
// stored value again yields ALREADY_EXISTS.
func Create(ctx context.Context, store *db.Store, cfg *config.Config, input CreateInput) (*record.View, error) {
	if input.Value == "" {
		return nil, errors.NewInvalidRequest(`missing "value" field`)
	}
	if err := checkValueSize(input.Value, cfg); err != nil {
		return nil, err
	}

	r := record.New(input.Value, time.Now())

	// The unique index catches races between this check and the insert.
	exists, err := store.Exists(ctx, input.Value)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewAlreadyExists(r.ID)
	}

	if err := store.Insert(ctx, r); err != nil {
		return nil, err
	}

	view := record.ToView(r)
	return &view, nil
}
