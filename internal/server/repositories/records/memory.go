package records

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/common"
	"github.com/dmitrijs2005/qrregistry/internal/server/models"
	"github.com/google/uuid"
)

type memoryRow struct {
	rec models.Record
	seq uint64
}

// MemoryRepository is an in-process Repository with the same observable
// behaviour as the Postgres one, including the (owner, national id) unique
// constraint. It is meant for tests and local runs.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]*memoryRow
	seq  uint64
	now  func() time.Time
}

// NewMemoryRepository returns an empty store using the wall clock.
func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWithClock(time.Now)
}

// NewMemoryRepositoryWithClock lets tests control created_at values.
func NewMemoryRepositoryWithClock(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]*memoryRow), now: now}
}

func copyRecord(r models.Record) *models.Record {
	if r.Description != nil {
		d := *r.Description
		r.Description = &d
	}
	return &r
}

// must be called with mu held
func (m *MemoryRepository) findByNationalID(ownerID, nationalID string) *memoryRow {
	for _, row := range m.rows {
		if row.rec.OwnerID == ownerID && row.rec.NationalID == nationalID {
			return row
		}
	}
	return nil
}

func (m *MemoryRepository) Insert(ctx context.Context, ownerID string, in models.RecordInput) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findByNationalID(ownerID, in.NationalID) != nil {
		return nil, common.ErrDuplicateNationalID
	}

	m.seq++
	rec := models.Record{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		NationalID: in.NationalID,
		CreatedAt:  m.now().UTC(),
	}
	models.RecordPatch{Description: in.Description}.Apply(&rec)

	m.rows[rec.ID] = &memoryRow{rec: rec, seq: m.seq}
	return copyRecord(rec), nil
}

func (m *MemoryRepository) ExistsByNationalID(ctx context.Context, ownerID, nationalID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findByNationalID(ownerID, nationalID) != nil, nil
}

func (m *MemoryRepository) FindByNationalID(ctx context.Context, ownerID, nationalID string) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	row := m.findByNationalID(ownerID, nationalID)
	if row == nil {
		return nil, common.ErrorNotFound
	}
	return copyRecord(row.rec), nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyRecord(row.rec), nil
}

func (m *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	return m.list(ctx, func(r *models.Record) bool { return r.OwnerID == ownerID })
}

func (m *MemoryRepository) ListAll(ctx context.Context) ([]*models.Record, error) {
	return m.list(ctx, func(*models.Record) bool { return true })
}

func (m *MemoryRepository) list(ctx context.Context, keep func(*models.Record) bool) ([]*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type snapshot struct {
		rec *models.Record
		seq uint64
	}

	m.mu.RLock()
	selected := make([]snapshot, 0, len(m.rows))
	for _, row := range m.rows {
		if keep(&row.rec) {
			selected = append(selected, snapshot{rec: copyRecord(row.rec), seq: row.seq})
		}
	}
	m.mu.RUnlock()

	// newest first; insertion order breaks created_at ties
	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if !a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
			return a.rec.CreatedAt.After(b.rec.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]*models.Record, 0, len(selected))
	for _, s := range selected {
		result = append(result, s.rec)
	}
	return result, nil
}

func (m *MemoryRepository) Update(ctx context.Context, scope models.RecordScope, patch models.RecordPatch) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[scope.ID]
	if !ok || row.rec.OwnerID != scope.OwnerID {
		return nil, common.ErrorNotFound
	}

	if patch.NationalID != nil {
		if other := m.findByNationalID(scope.OwnerID, *patch.NationalID); other != nil && other != row {
			return nil, common.ErrDuplicateNationalID
		}
	}

	patch.Apply(&row.rec)
	return copyRecord(row.rec), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, scope models.RecordScope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[scope.ID]
	if !ok || row.rec.OwnerID != scope.OwnerID {
		return common.ErrorNotFound
	}
	delete(m.rows, scope.ID)
	return nil
}
