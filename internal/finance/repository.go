package finance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for income and expense records.
type Repository interface {
	ListIncomes(ctx context.Context, orgID int64, month, year int) ([]Income, error)
	GetIncome(ctx context.Context, orgID, id int64) (*Income, error)
	CreateIncome(ctx context.Context, in Income) (*Income, error)
	DeleteIncome(ctx context.Context, orgID, id int64) error

	ListExpenses(ctx context.Context, orgID int64, month, year int) ([]Expense, error)
	GetExpense(ctx context.Context, orgID, id int64) (*Expense, error)
	CreateExpense(ctx context.Context, ex Expense) (*Expense, error)
	DeleteExpense(ctx context.Context, orgID, id int64) error

	MonthlySummary(ctx context.Context, orgID int64, month, year int) (*MonthlySummary, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const incomeColumns = `
	id, org_id, unit_id, amount::text, month, year, category, note,
	received_at, created_at`

const expenseColumns = `
	id, org_id, unit_id, amount::text, month, year, category, note,
	paid_at, created_at`

func scanIncome(row pgx.Row) (*Income, error) {
	var in Income
	var unitID pgtype.Int8
	var amount string
	var receivedAt, createdAt pgtype.Timestamptz
	err := row.Scan(&in.ID, &in.OrgID, &unitID, &amount, &in.Month, &in.Year,
		&in.Category, &in.Note, &receivedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		in.UnitID = &unitID.Int64
	}
	in.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	in.ReceivedAt = receivedAt.Time
	in.CreatedAt = createdAt.Time
	return &in, nil
}

func scanExpense(row pgx.Row) (*Expense, error) {
	var ex Expense
	var unitID pgtype.Int8
	var amount string
	var paidAt, createdAt pgtype.Timestamptz
	err := row.Scan(&ex.ID, &ex.OrgID, &unitID, &amount, &ex.Month, &ex.Year,
		&ex.Category, &ex.Note, &paidAt, &createdAt)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		ex.UnitID = &unitID.Int64
	}
	ex.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	ex.PaidAt = paidAt.Time
	ex.CreatedAt = createdAt.Time
	return &ex, nil
}

// ListIncomes returns income records for one billing period.
func (r *repository) ListIncomes(ctx context.Context, orgID int64, month, year int) ([]Income, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+incomeColumns+`
		FROM incomes
		WHERE org_id = $1 AND month = $2 AND year = $3
		ORDER BY received_at DESC, id DESC`, orgID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

// GetIncome retrieves one income record scoped to the organization.
func (r *repository) GetIncome(ctx context.Context, orgID, id int64) (*Income, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+incomeColumns+`
		FROM incomes
		WHERE org_id = $1 AND id = $2`, orgID, id)

	in, err := scanIncome(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

// CreateIncome inserts an income record.
func (r *repository) CreateIncome(ctx context.Context, in Income) (*Income, error) {
	const query = `
		INSERT INTO incomes (org_id, unit_id, amount, month, year, category, note,
			received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at`

	var unitID pgtype.Int8
	if in.UnitID != nil {
		unitID = pgtype.Int8{Int64: *in.UnitID, Valid: true}
	}

	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		in.OrgID, unitID, in.Amount.String(), in.Month, in.Year,
		in.Category, in.Note, in.ReceivedAt.UTC(),
	).Scan(&in.ID, &createdAt)
	if err != nil {
		return nil, err
	}
	in.CreatedAt = createdAt.Time
	return &in, nil
}

// DeleteIncome removes an income record scoped to the organization.
func (r *repository) DeleteIncome(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incomes WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListExpenses returns expense records for one billing period.
func (r *repository) ListExpenses(ctx context.Context, orgID int64, month, year int) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE org_id = $1 AND month = $2 AND year = $3
		ORDER BY paid_at DESC, id DESC`, orgID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		ex, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ex)
	}
	return out, rows.Err()
}

// GetExpense retrieves one expense record scoped to the organization.
func (r *repository) GetExpense(ctx context.Context, orgID, id int64) (*Expense, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE org_id = $1 AND id = $2`, orgID, id)

	ex, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// CreateExpense inserts an expense record.
func (r *repository) CreateExpense(ctx context.Context, ex Expense) (*Expense, error) {
	const query = `
		INSERT INTO expenses (org_id, unit_id, amount, month, year, category, note,
			paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at`

	var unitID pgtype.Int8
	if ex.UnitID != nil {
		unitID = pgtype.Int8{Int64: *ex.UnitID, Valid: true}
	}

	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		ex.OrgID, unitID, ex.Amount.String(), ex.Month, ex.Year,
		ex.Category, ex.Note, ex.PaidAt.UTC(),
	).Scan(&ex.ID, &createdAt)
	if err != nil {
		return nil, err
	}
	ex.CreatedAt = createdAt.Time
	return &ex, nil
}

// DeleteExpense removes an expense record scoped to the organization.
func (r *repository) DeleteExpense(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// MonthlySummary aggregates incomes and expenses of one period. Sums are
// cast to text so the decimal values stay exact.
func (r *repository) MonthlySummary(ctx context.Context, orgID int64, month, year int) (*MonthlySummary, error) {
	const query = `
		SELECT
			COALESCE((SELECT SUM(amount) FROM incomes
				WHERE org_id = $1 AND month = $2 AND year = $3), 0)::text,
			COALESCE((SELECT COUNT(*) FROM incomes
				WHERE org_id = $1 AND month = $2 AND year = $3), 0),
			COALESCE((SELECT SUM(amount) FROM expenses
				WHERE org_id = $1 AND month = $2 AND year = $3), 0)::text,
			COALESCE((SELECT COUNT(*) FROM expenses
				WHERE org_id = $1 AND month = $2 AND year = $3), 0)`

	var incomeStr, expenseStr string
	summary := MonthlySummary{Month: month, Year: year}
	err := r.pool.QueryRow(ctx, query, orgID, month, year).Scan(
		&incomeStr, &summary.IncomeCount, &expenseStr, &summary.ExpenseCount)
	if err != nil {
		return nil, err
	}
	if summary.TotalIncome, err = decimal.NewFromString(incomeStr); err != nil {
		return nil, err
	}
	if summary.TotalExpense, err = decimal.NewFromString(expenseStr); err != nil {
		return nil, err
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return &summary, nil
}
