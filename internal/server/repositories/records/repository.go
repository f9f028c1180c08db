// Package records stores Record rows. Every method that touches a single
// owned row takes a models.RecordScope so ownership is part of the filter
// and a foreign row is indistinguishable from a missing one.
package records

import (
	"context"

	"github.com/dmitrijs2005/qrregistry/internal/server/models"
)

// Repository is the store the record service depends on.
//
// Insert returns common.ErrDuplicateNationalID when the owner already has a
// record with the same national id. Lookups that match nothing return
// common.ErrorNotFound.
type Repository interface {
	Insert(ctx context.Context, ownerID string, in models.RecordInput) (*models.Record, error)
	ExistsByNationalID(ctx context.Context, ownerID, nationalID string) (bool, error)
	FindByNationalID(ctx context.Context, ownerID, nationalID string) (*models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error)
	ListAll(ctx context.Context) ([]*models.Record, error)
	Update(ctx context.Context, scope models.RecordScope, patch models.RecordPatch) (*models.Record, error)
	Delete(ctx context.Context, scope models.RecordScope) error
}
