package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/common"
	"github.com/dmitrijs2005/qrregistry/internal/qrpayload"
	"github.com/dmitrijs2005/qrregistry/internal/server/auth"
	"github.com/skip2/go-qrcode"
)

const (
	pngContentType = "image/png"
	shareLinkTTL   = 15 * time.Minute
)

// qrEncode is a seam over qrcode.Encode.
var qrEncode = qrcode.Encode

// ImageStore is where shared QR images are published.
type ImageStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// QRService renders record payloads as QR images.
type QRService struct {
	records *RecordService
	policy  *auth.OwnerPolicy
	store   ImageStore
	origin  string
	size    int
}

func NewQRService(records *RecordService, store ImageStore, origin string, size int) *QRService {
	return &QRService{
		records: records,
		policy:  records.policy,
		store:   store,
		origin:  origin,
		size:    size,
	}
}

// Payload returns the text encoded into the QR code of record id.
func (s *QRService) Payload(id string) string {
	return qrpayload.Build(s.origin, id)
}

// Render returns a PNG of the QR code for a live record.
func (s *QRService) Render(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.encode(rec.ID)
}

func (s *QRService) encode(id string) ([]byte, error) {
	png, err := qrEncode(s.Payload(id), qrcode.Medium, s.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// Share uploads the caller's record QR image and returns a time-limited
// download link. Foreign records read as not found.
func (s *QRService) Share(ctx context.Context, id string) (string, error) {
	scope, err := s.policy.OwnerFilter(ctx, id)
	if err != nil {
		return "", err
	}
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if rec.OwnerID != scope.OwnerID {
		return "", common.ErrorNotFound
	}

	png, err := s.encode(rec.ID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("qr/%s/%s.png", rec.OwnerID, rec.ID)
	if err := s.store.Put(ctx, key, png, pngContentType); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	url, err := s.store.PresignGet(ctx, key, shareLinkTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return url, nil
}
