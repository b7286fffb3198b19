package units

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for units. Every method is
// scoped by organization through the owning building.
type Repository interface {
	ListByOrg(ctx context.Context, orgID int64) ([]Unit, error)
	ListByBuilding(ctx context.Context, orgID, buildingID int64) ([]Unit, error)
	Get(ctx context.Context, orgID, id int64) (*Unit, error)
	Create(ctx context.Context, orgID int64, u Unit) (*Unit, error)
	Update(ctx context.Context, orgID, id int64, u Unit) error
	SetOccupied(ctx context.Context, orgID, id int64, occupied bool) error
	Delete(ctx context.Context, orgID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const unitColumns = `
	u.id, u.building_id, b.name, u.number, u.floor, u.monthly_fee::text,
	u.occupied, u.created_at, u.updated_at`

func scanUnit(row pgx.Row) (*Unit, error) {
	var u Unit
	var fee string
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&u.ID, &u.BuildingID, &u.BuildingName, &u.Number, &u.Floor,
		&fee, &u.Occupied, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	u.MonthlyFee, err = decimal.NewFromString(fee)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}

func (r *repository) queryUnits(ctx context.Context, query string, args ...any) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// ListByOrg returns all units of the organization.
func (r *repository) ListByOrg(ctx context.Context, orgID int64) ([]Unit, error) {
	return r.queryUnits(ctx, `
		SELECT `+unitColumns+`
		FROM units u
		JOIN buildings b ON b.id = u.building_id
		WHERE b.org_id = $1
		ORDER BY b.name, u.number`, orgID)
}

// ListByBuilding returns units of one building.
func (r *repository) ListByBuilding(ctx context.Context, orgID, buildingID int64) ([]Unit, error) {
	return r.queryUnits(ctx, `
		SELECT `+unitColumns+`
		FROM units u
		JOIN buildings b ON b.id = u.building_id
		WHERE b.org_id = $1 AND u.building_id = $2
		ORDER BY u.number`, orgID, buildingID)
}

// Get retrieves one unit scoped to the organization.
func (r *repository) Get(ctx context.Context, orgID, id int64) (*Unit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+unitColumns+`
		FROM units u
		JOIN buildings b ON b.id = u.building_id
		WHERE b.org_id = $1 AND u.id = $2`, orgID, id)

	u, err := scanUnit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a unit after verifying the building belongs to the org.
func (r *repository) Create(ctx context.Context, orgID int64, u Unit) (*Unit, error) {
	const query = `
		INSERT INTO units (building_id, number, floor, monthly_fee, occupied, created_at, updated_at)
		SELECT b.id, $3, $4, $5::numeric, $6, NOW(), NOW()
		FROM buildings b
		WHERE b.org_id = $1 AND b.id = $2
		RETURNING id, created_at, updated_at`

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		orgID, u.BuildingID, u.Number, u.Floor, u.MonthlyFee.String(), u.Occupied,
	).Scan(&u.ID, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}

// Update modifies a unit scoped to the organization.
func (r *repository) Update(ctx context.Context, orgID, id int64, u Unit) error {
	const query = `
		UPDATE units u
		SET number = $3, floor = $4, monthly_fee = $5::numeric, occupied = $6, updated_at = NOW()
		FROM buildings b
		WHERE b.id = u.building_id AND b.org_id = $1 AND u.id = $2`

	tag, err := r.pool.Exec(ctx, query, orgID, id, u.Number, u.Floor, u.MonthlyFee.String(), u.Occupied)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// SetOccupied flips the occupancy flag.
func (r *repository) SetOccupied(ctx context.Context, orgID, id int64, occupied bool) error {
	const query = `
		UPDATE units u
		SET occupied = $3, updated_at = NOW()
		FROM buildings b
		WHERE b.id = u.building_id AND b.org_id = $1 AND u.id = $2`

	tag, err := r.pool.Exec(ctx, query, orgID, id, occupied)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a unit scoped to the organization.
func (r *repository) Delete(ctx context.Context, orgID, id int64) error {
	const query = `
		DELETE FROM units u
		USING buildings b
		WHERE b.id = u.building_id AND b.org_id = $1 AND u.id = $2`

	tag, err := r.pool.Exec(ctx, query, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
