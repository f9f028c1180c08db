package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/common"
	"github.com/dmitrijs2005/qrregistry/internal/server/auth"
	"github.com/dmitrijs2005/qrregistry/internal/server/models"
	"github.com/dmitrijs2005/qrregistry/internal/server/repositories/records"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asUser(id string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: id, Role: common.RoleUser})
}

func asAdmin(id string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: id, Role: common.RoleAdmin})
}

func strp(s string) *string { return &s }

func newRecordService(t *testing.T) (*RecordService, *records.MemoryRepository) {
	t.Helper()
	repo := records.NewMemoryRepository()
	return NewRecordService(repo, auth.ContextIdentityProvider{}), repo
}

// failingRepo fails every call with err.
type failingRepo struct {
	records.Repository
	err error
}

func (f failingRepo) Insert(context.Context, string, models.RecordInput) (*models.Record, error) {
	return nil, f.err
}
func (f failingRepo) ExistsByNationalID(context.Context, string, string) (bool, error) {
	return false, f.err
}
func (f failingRepo) FindByNationalID(context.Context, string, string) (*models.Record, error) {
	return nil, f.err
}
func (f failingRepo) GetByID(context.Context, string) (*models.Record, error) { return nil, f.err }
func (f failingRepo) ListByOwner(context.Context, string) ([]*models.Record, error) {
	return nil, f.err
}
func (f failingRepo) ListAll(context.Context) ([]*models.Record, error) { return nil, f.err }
func (f failingRepo) Update(context.Context, models.RecordScope, models.RecordPatch) (*models.Record, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, models.RecordScope) error { return f.err }

// racingRepo reports no duplicate on the pre-check but the insert hits the
// unique constraint, as when two creates interleave.
type racingRepo struct {
	*records.MemoryRepository
}

func (racingRepo) ExistsByNationalID(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestRecordService_RequiresIdentity(t *testing.T) {
	s, _ := newRecordService(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := s.ExistsByNationalID(ctx, "1")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = s.Create(ctx, models.RecordInput{FirstName: "A", LastName: "B", NationalID: "1"})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = s.ListByOwner(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = s.Update(ctx, id, models.RecordPatch{FirstName: strp("x")})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	assert.ErrorIs(t, s.Delete(ctx, id), common.ErrUnauthenticated)
	_, err = s.ListAll(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestRecordService_CreateAndGet(t *testing.T) {
	s, _ := newRecordService(t)
	ctx := asUser("owner-a")

	rec, err := s.Create(ctx, models.RecordInput{
		FirstName: "Ana", LastName: "Gomez", NationalID: " 30111222 ", Description: strp("volunteer"),
	})
	require.NoError(t, err)
	assert.NoError(t, uuid.Validate(rec.ID))
	assert.Equal(t, "owner-a", rec.OwnerID)
	assert.Equal(t, "30111222", rec.NationalID, "surrounding whitespace is trimmed")
	assert.False(t, rec.CreatedAt.IsZero())

	// anonymous read by id
	got, err := s.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	ok, err := s.ExistsByNationalID(ctx, "30111222")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ExistsByNationalID(asUser("owner-b"), "30111222")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordService_CreateValidation(t *testing.T) {
	s, repo := newRecordService(t)

	_, err := s.Create(asUser("o"), models.RecordInput{FirstName: " ", LastName: "B", NationalID: "1"})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = s.Create(asUser("o"), models.RecordInput{FirstName: "A", LastName: "B", NationalID: "   "})
	assert.ErrorIs(t, err, common.ErrValidation)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecordService_DuplicateIsPerOwner(t *testing.T) {
	s, repo := newRecordService(t)
	in := models.RecordInput{FirstName: "Ana", LastName: "Gomez", NationalID: "30111222"}

	_, err := s.Create(asUser("owner-a"), in)
	require.NoError(t, err)

	_, err = s.Create(asUser("owner-a"), in)
	assert.ErrorIs(t, err, common.ErrDuplicateNationalID)

	_, err = s.Create(asUser("owner-b"), in)
	assert.NoError(t, err)

	mine, err := repo.ListByOwner(context.Background(), "owner-a")
	require.NoError(t, err)
	assert.Len(t, mine, 1, "no second write after a duplicate")
}

func TestRecordService_DuplicateOnInsertRace(t *testing.T) {
	repo := records.NewMemoryRepository()
	s := NewRecordService(racingRepo{repo}, auth.ContextIdentityProvider{})
	in := models.RecordInput{FirstName: "Ana", LastName: "Gomez", NationalID: "7"}

	_, err := s.Create(asUser("o"), in)
	require.NoError(t, err)

	_, err = s.Create(asUser("o"), in)
	assert.ErrorIs(t, err, common.ErrDuplicateNationalID)
	assert.NotErrorIs(t, err, common.ErrStorage)
}

func TestRecordService_GetByID_NotFound(t *testing.T) {
	s, _ := newRecordService(t)

	_, err := s.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecordService_ListByOwner(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo := records.NewMemoryRepositoryWithClock(func() time.Time {
		tick++
		return t0.Add(time.Duration(tick) * time.Minute)
	})
	s := NewRecordService(repo, auth.ContextIdentityProvider{})

	first, err := s.Create(asUser("a"), models.RecordInput{FirstName: "F", LastName: "L", NationalID: "1"})
	require.NoError(t, err)
	_, err = s.Create(asUser("b"), models.RecordInput{FirstName: "F", LastName: "L", NationalID: "2"})
	require.NoError(t, err)
	second, err := s.Create(asUser("a"), models.RecordInput{FirstName: "F", LastName: "L", NationalID: "3"})
	require.NoError(t, err)

	got, err := s.ListByOwner(asUser("a"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	empty, err := s.ListByOwner(asUser("nobody"))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRecordService_UpdateDescriptionOnly(t *testing.T) {
	s, _ := newRecordService(t)
	ctx := asUser("a")

	rec, err := s.Create(ctx, models.RecordInput{FirstName: "Ana", LastName: "Gomez", NationalID: "1"})
	require.NoError(t, err)

	_, err = s.Update(ctx, rec.ID, models.RecordPatch{Description: strp("x")})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "x", *got.Description)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "Gomez", got.LastName)
	assert.Equal(t, "1", got.NationalID)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
}

func TestRecordService_UpdateNationalIDRechecksDuplicates(t *testing.T) {
	s, _ := newRecordService(t)
	ctx := asUser("a")

	r1, err := s.Create(ctx, models.RecordInput{FirstName: "A", LastName: "A", NationalID: "1"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.RecordInput{FirstName: "B", LastName: "B", NationalID: "2"})
	require.NoError(t, err)

	_, err = s.Update(ctx, r1.ID, models.RecordPatch{NationalID: strp("2")})
	assert.ErrorIs(t, err, common.ErrDuplicateNationalID)

	// keeping its own national id is not a duplicate
	got, err := s.Update(ctx, r1.ID, models.RecordPatch{NationalID: strp(" 1 ")})
	require.NoError(t, err)
	assert.Equal(t, "1", got.NationalID)

	_, err = s.Update(ctx, r1.ID, models.RecordPatch{LastName: strp("")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRecordService_ForeignRecordIsNotFound(t *testing.T) {
	s, _ := newRecordService(t)

	rec, err := s.Create(asUser("a"), models.RecordInput{FirstName: "A", LastName: "A", NationalID: "1"})
	require.NoError(t, err)

	_, err = s.Update(asUser("b"), rec.ID, models.RecordPatch{FirstName: strp("hijack")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NotErrorIs(t, err, common.ErrForbidden)

	assert.ErrorIs(t, s.Delete(asUser("b"), rec.ID), common.ErrorNotFound)

	got, err := s.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.FirstName)
}

func TestRecordService_Delete(t *testing.T) {
	s, _ := newRecordService(t)
	ctx := asUser("a")

	rec, err := s.Create(ctx, models.RecordInput{FirstName: "A", LastName: "A", NationalID: "1"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, rec.ID))

	_, err = s.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.Delete(ctx, rec.ID), common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "garbage"), common.ErrorNotFound)
}

func TestRecordService_ListAllRequiresAdmin(t *testing.T) {
	s, _ := newRecordService(t)

	_, err := s.Create(asUser("a"), models.RecordInput{FirstName: "A", LastName: "A", NationalID: "1"})
	require.NoError(t, err)
	_, err = s.Create(asUser("b"), models.RecordInput{FirstName: "B", LastName: "B", NationalID: "1"})
	require.NoError(t, err)

	_, err = s.ListAll(asUser("a"))
	assert.ErrorIs(t, err, common.ErrForbidden)

	all, err := s.ListAll(asAdmin("root"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecordService_StorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	s := NewRecordService(failingRepo{err: boom}, auth.ContextIdentityProvider{})
	ctx := asAdmin("a")
	id := uuid.NewString()

	check := func(t *testing.T, err error) {
		t.Helper()
		assert.ErrorIs(t, err, common.ErrStorage)
		assert.ErrorIs(t, err, boom)
	}

	_, err := s.ExistsByNationalID(ctx, "1")
	check(t, err)
	_, err = s.Create(ctx, models.RecordInput{FirstName: "A", LastName: "A", NationalID: "1"})
	check(t, err)
	_, err = s.GetByID(ctx, id)
	check(t, err)
	_, err = s.ListByOwner(ctx)
	check(t, err)
	_, err = s.Update(ctx, id, models.RecordPatch{NationalID: strp("2")})
	check(t, err)
	check(t, s.Delete(ctx, id))
	_, err = s.ListAll(ctx)
	check(t, err)
}
