// Package refreshtokens stores the single-use refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/server/models"
)

// Repository issues, looks up and consumes refresh tokens.
type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume deletes the token and returns common.ErrorNotFound when it was
	// already gone, so two concurrent refreshes cannot both succeed.
	Consume(ctx context.Context, token string) error
}
