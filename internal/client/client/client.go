package client

import (
	"context"

	"github.com/dmitrijs2005/qrregistry/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) error
	Logout()
	IsAuthenticated() bool
	Ping(ctx context.Context) error

	CreateRecord(ctx context.Context, in models.RecordInput) (*models.Record, error)
	ListRecords(ctx context.Context) ([]*models.Record, error)
	GetRecord(ctx context.Context, id string) (*models.Record, error)
	UpdateRecord(ctx context.Context, id string, patch models.RecordPatch) (*models.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	Exists(ctx context.Context, nationalID string) (bool, error)
	Scan(ctx context.Context, payload string) (*models.Record, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
	Share(ctx context.Context, id string) (string, error)
	ListAll(ctx context.Context) ([]*models.Record, error)
}
