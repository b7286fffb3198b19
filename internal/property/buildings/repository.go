package buildings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for buildings.
type Repository interface {
	List(ctx context.Context, orgID int64) ([]Building, error)
	Get(ctx context.Context, orgID, id int64) (*Building, error)
	Create(ctx context.Context, b Building) (*Building, error)
	Update(ctx context.Context, orgID, id int64, b Building) error
	Delete(ctx context.Context, orgID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List returns buildings of the organization with their live unit counts.
func (r *repository) List(ctx context.Context, orgID int64) ([]Building, error) {
	const query = `
		SELECT b.id, b.org_id, b.name, b.address, b.city, b.postal_code,
			(SELECT COUNT(*) FROM units u WHERE u.building_id = b.id),
			b.created_at, b.updated_at
		FROM buildings b
		WHERE b.org_id = $1
		ORDER BY b.name`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Building
	for rows.Next() {
		var b Building
		var createdAt, updatedAt pgtype.Timestamptz
		if err := rows.Scan(&b.ID, &b.OrgID, &b.Name, &b.Address, &b.City, &b.PostalCode,
			&b.UnitCount, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time
		out = append(out, b)
	}
	return out, rows.Err()
}

// Get retrieves a building scoped to the organization.
func (r *repository) Get(ctx context.Context, orgID, id int64) (*Building, error) {
	const query = `
		SELECT b.id, b.org_id, b.name, b.address, b.city, b.postal_code,
			(SELECT COUNT(*) FROM units u WHERE u.building_id = b.id),
			b.created_at, b.updated_at
		FROM buildings b
		WHERE b.org_id = $1 AND b.id = $2`

	var b Building
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query, orgID, id).Scan(
		&b.ID, &b.OrgID, &b.Name, &b.Address, &b.City, &b.PostalCode,
		&b.UnitCount, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

// Create inserts a building.
func (r *repository) Create(ctx context.Context, b Building) (*Building, error) {
	const query = `
		INSERT INTO buildings (org_id, name, address, city, postal_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		b.OrgID, b.Name, b.Address, b.City, b.PostalCode,
	).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

// Update modifies a building scoped to the organization.
func (r *repository) Update(ctx context.Context, orgID, id int64, b Building) error {
	const query = `
		UPDATE buildings
		SET name = $3, address = $4, city = $5, postal_code = $6, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, orgID, id, b.Name, b.Address, b.City, b.PostalCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a building scoped to the organization.
func (r *repository) Delete(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buildings WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
