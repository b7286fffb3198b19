package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for notifications.
type Repository interface {
	List(ctx context.Context, orgID int64, unreadOnly bool, limit, offset int) ([]Notification, error)
	ListByResident(ctx context.Context, orgID, residentID int64) ([]Notification, error)
	Get(ctx context.Context, orgID, id int64) (*Notification, error)
	Create(ctx context.Context, n Notification) (*Notification, error)
	MarkRead(ctx context.Context, orgID, id int64) error
	CountUnread(ctx context.Context, orgID int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const notificationColumns = `
	id, org_id, resident_id, unit_id, kind, subject, body, read_at, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	var unitID pgtype.Int8
	var readAt, createdAt pgtype.Timestamptz
	err := row.Scan(&n.ID, &n.OrgID, &n.ResidentID, &unitID, &n.Kind,
		&n.Subject, &n.Body, &readAt, &createdAt)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		n.UnitID = &unitID.Int64
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	n.CreatedAt = createdAt.Time
	return &n, nil
}

func (r *repository) queryNotifications(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// List returns notifications of the organization, newest first.
func (r *repository) List(ctx context.Context, orgID int64, unreadOnly bool, limit, offset int) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE org_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryNotifications(ctx, query, orgID, limit, offset)
}

// ListByResident returns notifications addressed to one resident, newest first.
func (r *repository) ListByResident(ctx context.Context, orgID, residentID int64) ([]Notification, error) {
	return r.queryNotifications(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE org_id = $1 AND resident_id = $2
		ORDER BY created_at DESC`, orgID, residentID)
}

// Get retrieves one notification scoped to the organization.
func (r *repository) Get(ctx context.Context, orgID, id int64) (*Notification, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE org_id = $1 AND id = $2`, orgID, id)

	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts a notification.
func (r *repository) Create(ctx context.Context, n Notification) (*Notification, error) {
	const query = `
		INSERT INTO notifications (org_id, resident_id, unit_id, kind, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`

	var unitID pgtype.Int8
	if n.UnitID != nil {
		unitID = pgtype.Int8{Int64: *n.UnitID, Valid: true}
	}

	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		n.OrgID, n.ResidentID, unitID, n.Kind, n.Subject, n.Body,
	).Scan(&n.ID, &createdAt)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = createdAt.Time
	return &n, nil
}

// MarkRead stamps a notification as read. Already-read rows are left untouched.
func (r *repository) MarkRead(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET read_at = NOW()
		WHERE org_id = $1 AND id = $2 AND read_at IS NULL`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM notifications WHERE org_id = $1 AND id = $2)`,
			orgID, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return httpx.ErrNotFound
		}
	}
	return nil
}

// CountUnread returns the number of unread notifications in the organization.
func (r *repository) CountUnread(ctx context.Context, orgID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE org_id = $1 AND read_at IS NULL`,
		orgID).Scan(&count)
	return count, err
}
