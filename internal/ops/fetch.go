package ops

import (
	"context"

	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/record"
)

// Fetch returns the stored record whose value matches exactly (case-sensitive).
func Fetch(ctx context.Context, store *db.Store, value string) (*record.View, error) {
	r, err := store.GetByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	view := record.ToView(r)
	return &view, nil
}
