package helpdesk

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for tickets and comments.
type Repository interface {
	List(ctx context.Context, orgID int64, status string) ([]Ticket, error)
	Get(ctx context.Context, orgID, id int64) (*Ticket, error)
	Create(ctx context.Context, t Ticket) (*Ticket, error)
	UpdateStatus(ctx context.Context, orgID, id int64, status string, resolved bool) error
	ListComments(ctx context.Context, orgID, ticketID int64) ([]Comment, error)
	AddComment(ctx context.Context, orgID int64, c Comment) (*Comment, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const ticketColumns = `
	id, org_id, resident_id, unit_id, title, description, category,
	priority, status, resolved_at, created_at, updated_at`

func scanTicket(row pgx.Row) (*Ticket, error) {
	var t Ticket
	var residentID, unitID pgtype.Int8
	var resolvedAt, createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&t.ID, &t.OrgID, &residentID, &unitID, &t.Title, &t.Description,
		&t.Category, &t.Priority, &t.Status, &resolvedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if residentID.Valid {
		t.ResidentID = &residentID.Int64
	}
	if unitID.Valid {
		t.UnitID = &unitID.Int64
	}
	if resolvedAt.Valid {
		ts := resolvedAt.Time
		t.ResolvedAt = &ts
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

// List returns tickets, optionally filtered by status, newest first.
func (r *repository) List(ctx context.Context, orgID int64, status string) ([]Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE org_id = $1`
	args := []any{orgID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Get retrieves one ticket scoped to the organization.
func (r *repository) Get(ctx context.Context, orgID, id int64) (*Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE org_id = $1 AND id = $2`, orgID, id)

	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a ticket.
func (r *repository) Create(ctx context.Context, t Ticket) (*Ticket, error) {
	const query = `
		INSERT INTO tickets (org_id, resident_id, unit_id, title, description,
			category, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var residentID, unitID pgtype.Int8
	if t.ResidentID != nil {
		residentID = pgtype.Int8{Int64: *t.ResidentID, Valid: true}
	}
	if t.UnitID != nil {
		unitID = pgtype.Int8{Int64: *t.UnitID, Valid: true}
	}

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		t.OrgID, residentID, unitID, t.Title, t.Description,
		t.Category, t.Priority, t.Status,
	).Scan(&t.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

// UpdateStatus moves a ticket through its lifecycle. The resolved stamp
// is set when entering resolved and cleared on reopen.
func (r *repository) UpdateStatus(ctx context.Context, orgID, id int64, status string, resolved bool) error {
	query := `
		UPDATE tickets
		SET status = $3, resolved_at = NULL, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`
	if resolved {
		query = `
			UPDATE tickets
			SET status = $3, resolved_at = NOW(), updated_at = NOW()
			WHERE org_id = $1 AND id = $2`
	}

	tag, err := r.pool.Exec(ctx, query, orgID, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListComments returns a ticket's comments, oldest first.
func (r *repository) ListComments(ctx context.Context, orgID, ticketID int64) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.ticket_id, c.author_id, c.body, c.created_at
		FROM ticket_comments c
		JOIN tickets t ON t.id = c.ticket_id AND t.org_id = $1
		WHERE c.ticket_id = $2
		ORDER BY c.created_at`, orgID, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = createdAt.Time
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddComment inserts a comment after confirming the ticket belongs to
// the organization.
func (r *repository) AddComment(ctx context.Context, orgID int64, c Comment) (*Comment, error) {
	const query = `
		INSERT INTO ticket_comments (ticket_id, author_id, body, created_at)
		SELECT t.id, $3, $4, NOW()
		FROM tickets t
		WHERE t.org_id = $1 AND t.id = $2
		RETURNING id, created_at`

	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query, orgID, c.TicketID, c.AuthorID, c.Body).
		Scan(&c.ID, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = createdAt.Time
	return &c, nil
}
