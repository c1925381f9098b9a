package ops

import (
	"context"

	"github.com/hpungsan/twine/internal/analysis"
	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
)

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes the record whose value matches exactly.
func Delete(ctx context.Context, store *db.Store, value string) (*DeleteOutput, error) {
	removed, err := store.DeleteByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, errors.NewNotFound(value)
	}
	return &DeleteOutput{
		Deleted: true,
		ID:      analysis.Fingerprint(value),
	}, nil
}
