package residents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for residents.
type Repository interface {
	List(ctx context.Context, orgID int64, activeOnly bool) ([]Resident, error)
	ListByUnit(ctx context.Context, orgID, unitID int64) ([]Resident, error)
	Get(ctx context.Context, orgID, id int64) (*Resident, error)
	Create(ctx context.Context, res Resident) (*Resident, error)
	Update(ctx context.Context, orgID, id int64, res Resident) error
	Delete(ctx context.Context, orgID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const residentColumns = `
	id, org_id, unit_id, first_name, last_name, email, phone,
	is_active, is_owner, moved_in_at, created_at, updated_at`

func scanResident(row pgx.Row) (*Resident, error) {
	var res Resident
	var unitID pgtype.Int8
	var movedInAt, createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&res.ID, &res.OrgID, &unitID, &res.FirstName, &res.LastName,
		&res.Email, &res.Phone, &res.IsActive, &res.IsOwner, &movedInAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		res.UnitID = &unitID.Int64
	}
	if movedInAt.Valid {
		t := movedInAt.Time
		res.MovedInAt = &t
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}

func (r *repository) queryResidents(ctx context.Context, query string, args ...any) ([]Resident, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resident
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// List returns residents of the organization.
func (r *repository) List(ctx context.Context, orgID int64, activeOnly bool) ([]Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents WHERE org_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY last_name, first_name`
	return r.queryResidents(ctx, query, orgID)
}

// ListByUnit returns residents linked to one unit.
func (r *repository) ListByUnit(ctx context.Context, orgID, unitID int64) ([]Resident, error) {
	return r.queryResidents(ctx, `
		SELECT `+residentColumns+`
		FROM residents
		WHERE org_id = $1 AND unit_id = $2
		ORDER BY moved_in_at DESC NULLS LAST`, orgID, unitID)
}

// Get retrieves one resident scoped to the organization.
func (r *repository) Get(ctx context.Context, orgID, id int64) (*Resident, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+residentColumns+`
		FROM residents
		WHERE org_id = $1 AND id = $2`, orgID, id)

	res, err := scanResident(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create inserts a resident.
func (r *repository) Create(ctx context.Context, res Resident) (*Resident, error) {
	const query = `
		INSERT INTO residents (org_id, unit_id, first_name, last_name, email, phone,
			is_active, is_owner, moved_in_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var unitID pgtype.Int8
	if res.UnitID != nil {
		unitID = pgtype.Int8{Int64: *res.UnitID, Valid: true}
	}
	var movedInAt pgtype.Timestamptz
	if res.MovedInAt != nil {
		movedInAt = pgtype.Timestamptz{Time: res.MovedInAt.UTC(), Valid: true}
	}

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		res.OrgID, unitID, res.FirstName, res.LastName, res.Email, res.Phone,
		res.IsActive, res.IsOwner, movedInAt,
	).Scan(&res.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}

// Update modifies a resident scoped to the organization.
func (r *repository) Update(ctx context.Context, orgID, id int64, res Resident) error {
	const query = `
		UPDATE residents
		SET unit_id = $3, first_name = $4, last_name = $5, email = $6, phone = $7,
			is_active = $8, is_owner = $9, moved_in_at = $10, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`

	var unitID pgtype.Int8
	if res.UnitID != nil {
		unitID = pgtype.Int8{Int64: *res.UnitID, Valid: true}
	}
	var movedInAt pgtype.Timestamptz
	if res.MovedInAt != nil {
		movedInAt = pgtype.Timestamptz{Time: res.MovedInAt.UTC(), Valid: true}
	}

	tag, err := r.pool.Exec(ctx, query, orgID, id, unitID,
		res.FirstName, res.LastName, res.Email, res.Phone,
		res.IsActive, res.IsOwner, movedInAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a resident scoped to the organization.
func (r *repository) Delete(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM residents WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
