// Package auth issues and verifies access tokens and decides what an
// authenticated caller may do with records.
package auth

import (
	"context"

	"github.com/dmitrijs2005/qrregistry/internal/common"
)

// Identity is the authenticated principal behind a request.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role claim.
func (i Identity) IsAdmin() bool {
	return i.Role == common.RoleAdmin
}

// IdentityProvider resolves the caller of the current request, if any.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (Identity, bool)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// ContextIdentityProvider reads the identity stored by WithIdentity.
type ContextIdentityProvider struct{}

func (ContextIdentityProvider) CurrentIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
