package drafts

import (
	"context"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
)

// Repository stores draft batches.
type Repository interface {
	// Save inserts the batch or replaces the draft with the same ID.
	Save(ctx context.Context, b *models.Batch) error

	// Get returns the draft with the given ID or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Batch, error)

	// List returns every draft, most recently updated first.
	List(ctx context.Context) ([]*models.Batch, error)

	// Delete removes a draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteForItem removes the drafts of one list item except keepID.
	DeleteForItem(ctx context.Context, listID string, itemID int, keepID string) error
}
