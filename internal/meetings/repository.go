package meetings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for meetings.
type Repository interface {
	List(ctx context.Context, orgID int64, upcomingOnly bool) ([]Meeting, error)
	Get(ctx context.Context, orgID, id int64) (*Meeting, error)
	Create(ctx context.Context, m Meeting) (*Meeting, error)
	Update(ctx context.Context, orgID, id int64, m Meeting) error
	Delete(ctx context.Context, orgID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const meetingColumns = `
	id, org_id, title, agenda, location, scheduled_at, minutes, created_at, updated_at`

func scanMeeting(row pgx.Row) (*Meeting, error) {
	var m Meeting
	var scheduledAt, createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&m.ID, &m.OrgID, &m.Title, &m.Agenda, &m.Location,
		&scheduledAt, &m.Minutes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	m.ScheduledAt = scheduledAt.Time
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time
	return &m, nil
}

// List returns meetings, soonest first.
func (r *repository) List(ctx context.Context, orgID int64, upcomingOnly bool) ([]Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE org_id = $1`
	if upcomingOnly {
		query += ` AND scheduled_at >= NOW()`
	}
	query += ` ORDER BY scheduled_at`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Get retrieves one meeting scoped to the organization.
func (r *repository) Get(ctx context.Context, orgID, id int64) (*Meeting, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		WHERE org_id = $1 AND id = $2`, orgID, id)

	m, err := scanMeeting(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a meeting.
func (r *repository) Create(ctx context.Context, m Meeting) (*Meeting, error) {
	const query = `
		INSERT INTO meetings (org_id, title, agenda, location, scheduled_at, minutes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		m.OrgID, m.Title, m.Agenda, m.Location, m.ScheduledAt.UTC(), m.Minutes,
	).Scan(&m.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time
	return &m, nil
}

// Update modifies a meeting scoped to the organization.
func (r *repository) Update(ctx context.Context, orgID, id int64, m Meeting) error {
	const query = `
		UPDATE meetings
		SET title = $3, agenda = $4, location = $5, scheduled_at = $6, minutes = $7,
			updated_at = NOW()
		WHERE org_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, orgID, id,
		m.Title, m.Agenda, m.Location, m.ScheduledAt.UTC(), m.Minutes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a meeting scoped to the organization.
func (r *repository) Delete(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
