package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/qrregistry/internal/common"
	"github.com/dmitrijs2005/qrregistry/internal/dbx"
	"github.com/dmitrijs2005/qrregistry/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgInvalidTextEncoding = "22P02"

	recordColumns = `id, owner_id, first_name, last_name, national_id, description, created_at`
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanRecord(row interface{ Scan(dest ...any) error }) (*models.Record, error) {
	r := &models.Record{}
	var description sql.NullString
	if err := row.Scan(&r.ID, &r.OwnerID, &r.FirstName, &r.LastName, &r.NationalID, &description, &r.CreatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		r.Description = &description.String
	}
	return r, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapRowError turns driver errors on single-row lookups into sentinels.
// A malformed uuid can never match a row, so it reads as not found.
func mapRowError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextEncoding {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// Insert adds a record owned by ownerID. The id and created_at are assigned
// by the database and returned with the row.
func (r *PostgresRepository) Insert(ctx context.Context, ownerID string, in models.RecordInput) (*models.Record, error) {
	query := `
		INSERT INTO records (owner_id, first_name, last_name, national_id, description)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING ` + recordColumns

	row := r.db.QueryRowContext(ctx, query, ownerID, in.FirstName, in.LastName, in.NationalID, in.Description)
	rec, err := scanRecord(row)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, common.ErrDuplicateNationalID
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// ExistsByNationalID reports whether ownerID has a record with nationalID.
func (r *PostgresRepository) ExistsByNationalID(ctx context.Context, ownerID, nationalID string) (bool, error) {
	query := `SELECT 1 FROM records WHERE owner_id = $1 AND national_id = $2`

	var one int
	err := r.db.QueryRowContext(ctx, query, ownerID, nationalID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// FindByNationalID returns the owner's record with nationalID.
func (r *PostgresRepository) FindByNationalID(ctx context.Context, ownerID, nationalID string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE owner_id = $1 AND national_id = $2`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, ownerID, nationalID))
	if err != nil {
		return nil, mapRowError(err)
	}
	return rec, nil
}

// GetByID returns the record with the given id regardless of owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapRowError(err)
	}
	return rec, nil
}

// ListByOwner returns the owner's records, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, ownerID)
}

// ListAll returns every record, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update applies patch to the scoped record and returns the stored row.
// Unset patch fields keep their current values; a blank description is
// stored as NULL.
func (r *PostgresRepository) Update(ctx context.Context, scope models.RecordScope, patch models.RecordPatch) (*models.Record, error) {
	query := `
		UPDATE records SET
			first_name  = COALESCE($3, first_name),
			last_name   = COALESCE($4, last_name),
			national_id = COALESCE($5, national_id),
			description = NULLIF(COALESCE($6, description), '')
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + recordColumns

	row := r.db.QueryRowContext(ctx, query, scope.ID, scope.OwnerID,
		patch.FirstName, patch.LastName, patch.NationalID, patch.Description)
	rec, err := scanRecord(row)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, common.ErrDuplicateNationalID
		}
		return nil, mapRowError(err)
	}
	return rec, nil
}

// Delete removes the scoped record. No affected row means not found.
func (r *PostgresRepository) Delete(ctx context.Context, scope models.RecordScope) error {
	query := `DELETE FROM records WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, scope.ID, scope.OwnerID)
	if err != nil {
		if pgCode(err) == pgInvalidTextEncoding {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
