package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/qrregistry/internal/common"
	"github.com/dmitrijs2005/qrregistry/internal/server/auth"
	"github.com/dmitrijs2005/qrregistry/internal/server/models"
	"github.com/dmitrijs2005/qrregistry/internal/server/repositories/records"
	"github.com/google/uuid"
)

// RecordService is the single point of access to records. It resolves the
// caller through the owner policy, guards per-owner national id uniqueness
// and folds store failures into common.ErrStorage.
type RecordService struct {
	repo   records.Repository
	policy *auth.OwnerPolicy
}

func NewRecordService(repo records.Repository, identities auth.IdentityProvider) *RecordService {
	return &RecordService{
		repo:   repo,
		policy: auth.NewOwnerPolicy(identities),
	}
}

// storageError passes taxonomy sentinels through and tags everything else
// as a storage failure.
func storageError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrDuplicateNationalID):
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}

func normalizeNationalID(s string) string {
	return strings.TrimSpace(s)
}

// ExistsByNationalID reports whether the caller already owns a record with
// nationalID.
func (s *RecordService) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	id, err := s.policy.Require(ctx)
	if err != nil {
		return false, err
	}
	return s.exists(ctx, id.UserID, normalizeNationalID(nationalID))
}

func (s *RecordService) exists(ctx context.Context, ownerID, nationalID string) (bool, error) {
	ok, err := s.repo.ExistsByNationalID(ctx, ownerID, nationalID)
	if err != nil {
		return false, storageError(err)
	}
	return ok, nil
}

// Create stores a new record owned by the caller and returns it as stored.
func (s *RecordService) Create(ctx context.Context, in models.RecordInput) (*models.Record, error) {
	id, err := s.policy.Require(ctx)
	if err != nil {
		return nil, err
	}

	in.NationalID = normalizeNationalID(in.NationalID)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	dup, err := s.exists(ctx, id.UserID, in.NationalID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, common.ErrDuplicateNationalID
	}

	rec, err := s.repo.Insert(ctx, id.UserID, in)
	if err != nil {
		return nil, storageError(err)
	}
	return rec, nil
}

// GetByID looks a record up without any ownership filter. It is the read
// path behind public scans and works for anonymous callers.
func (s *RecordService) GetByID(ctx context.Context, id string) (*models.Record, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return rec, nil
}

// ListByOwner returns the caller's records, newest first.
func (s *RecordService) ListByOwner(ctx context.Context) ([]*models.Record, error) {
	id, err := s.policy.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByOwner(ctx, id.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

// Update applies patch to one of the caller's records. A record owned by
// someone else is reported as not found.
func (s *RecordService) Update(ctx context.Context, id string, patch models.RecordPatch) (*models.Record, error) {
	scope, err := s.policy.OwnerFilter(ctx, id)
	if err != nil {
		return nil, err
	}
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}

	if patch.NationalID != nil {
		nid := normalizeNationalID(*patch.NationalID)
		patch.NationalID = &nid
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if patch.NationalID != nil {
		other, err := s.repo.FindByNationalID(ctx, scope.OwnerID, *patch.NationalID)
		switch {
		case err == nil && other.ID != id:
			return nil, common.ErrDuplicateNationalID
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return nil, storageError(err)
		}
	}

	rec, err := s.repo.Update(ctx, scope, patch)
	if err != nil {
		return nil, storageError(err)
	}
	return rec, nil
}

// Delete removes one of the caller's records. Absent and foreign records
// both yield common.ErrorNotFound.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	scope, err := s.policy.OwnerFilter(ctx, id)
	if err != nil {
		return err
	}
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	if err := s.repo.Delete(ctx, scope); err != nil {
		return storageError(err)
	}
	return nil
}

// ListAll returns every record in the store. Admin role required.
func (s *RecordService) ListAll(ctx context.Context) ([]*models.Record, error) {
	if err := s.policy.CanListAll(ctx); err != nil {
		return nil, err
	}
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func validateInput(in models.RecordInput) error {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if in.NationalID == "" {
		missing = append(missing, "national_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func validatePatch(p models.RecordPatch) error {
	var empty []string
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		empty = append(empty, "first_name")
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		empty = append(empty, "last_name")
	}
	if p.NationalID != nil && *p.NationalID == "" {
		empty = append(empty, "national_id")
	}
	if len(empty) > 0 {
		return fmt.Errorf("%w: empty %s", common.ErrValidation, strings.Join(empty, ", "))
	}
	return nil
}
