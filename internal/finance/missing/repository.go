package missing

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository defines the read contracts of the workflow. Both queries
// are scoped by organization id.
type Repository interface {
	BilledUnits(ctx context.Context, orgID int64) ([]BilledUnit, error)
	PaidUnitIDs(ctx context.Context, orgID int64, month, year int) (map[int64]struct{}, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// BilledUnits returns occupied units with at least one active linked
// resident. When a unit has several active residents, the most recent
// move-in wins. Occupied units without an active resident are excluded
// since there is nobody to bill.
func (r *repository) BilledUnits(ctx context.Context, orgID int64) ([]BilledUnit, error) {
	const query = `
		SELECT DISTINCT ON (u.id)
			u.id, u.number, b.id, b.name, u.monthly_fee::text,
			res.id, TRIM(res.first_name || ' ' || res.last_name)
		FROM units u
		JOIN buildings b ON b.id = u.building_id AND b.org_id = $1
		JOIN residents res ON res.unit_id = u.id AND res.org_id = $1 AND res.is_active = TRUE
		WHERE u.occupied = TRUE
		ORDER BY u.id, res.moved_in_at DESC NULLS LAST, res.id DESC`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BilledUnit
	for rows.Next() {
		var bu BilledUnit
		var fee string
		if err := rows.Scan(&bu.UnitID, &bu.UnitNumber, &bu.BuildingID, &bu.BuildingName,
			&fee, &bu.ResidentID, &bu.ResidentName); err != nil {
			return nil, err
		}
		if bu.MonthlyFee, err = decimal.NewFromString(fee); err != nil {
			return nil, err
		}
		out = append(out, bu)
	}
	return out, rows.Err()
}

// PaidUnitIDs returns the ids of units covered by at least one income
// record for the period. Presence is the only signal, the amount is not
// compared against the fee.
func (r *repository) PaidUnitIDs(ctx context.Context, orgID int64, month, year int) (map[int64]struct{}, error) {
	const query = `
		SELECT DISTINCT unit_id
		FROM incomes
		WHERE org_id = $1 AND month = $2 AND year = $3 AND unit_id IS NOT NULL`

	rows, err := r.pool.Query(ctx, query, orgID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paid := make(map[int64]struct{})
	for rows.Next() {
		var unitID int64
		if err := rows.Scan(&unitID); err != nil {
			return nil, err
		}
		paid[unitID] = struct{}{}
	}
	return paid, rows.Err()
}
