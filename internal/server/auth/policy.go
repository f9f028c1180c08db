package auth

import (
	"context"

	"github.com/dmitrijs2005/qrregistry/internal/common"
	"github.com/dmitrijs2005/qrregistry/internal/server/models"
)

// OwnerPolicy is the authorization rule for records: reads by id are public,
// mutations are restricted to the owner and the full listing to admins.
type OwnerPolicy struct {
	Identities IdentityProvider
}

func NewOwnerPolicy(p IdentityProvider) *OwnerPolicy {
	return &OwnerPolicy{Identities: p}
}

// Require returns the caller or common.ErrUnauthenticated.
func (p *OwnerPolicy) Require(ctx context.Context) (Identity, error) {
	id, ok := p.Identities.CurrentIdentity(ctx)
	if !ok {
		return Identity{}, common.ErrUnauthenticated
	}
	return id, nil
}

// OwnerFilter narrows a mutation of recordID to rows owned by the caller.
func (p *OwnerPolicy) OwnerFilter(ctx context.Context, recordID string) (models.RecordScope, error) {
	id, err := p.Require(ctx)
	if err != nil {
		return models.RecordScope{}, err
	}
	return models.RecordScope{ID: recordID, OwnerID: id.UserID}, nil
}

// CanListAll admits only callers holding the admin role.
func (p *OwnerPolicy) CanListAll(ctx context.Context) error {
	id, err := p.Require(ctx)
	if err != nil {
		return err
	}
	if !id.IsAdmin() {
		return common.ErrForbidden
	}
	return nil
}
