// Package users persists registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/qrregistry/internal/server/models"
)

type Repository interface {
	// Create stores user and fills in ID and CreatedAt. A taken email is
	// reported as common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
