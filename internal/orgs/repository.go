package orgs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for organizations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ErrDuplicateMember indicates the user is already a member.
var ErrDuplicateMember = errors.New("orgs: user already a member")

// Get retrieves an organization by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Organization, error) {
	const query = `
		SELECT id, name, slug, plan, created_at, updated_at
		FROM organizations
		WHERE id = $1`

	var org Organization
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Slug, &org.Plan, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	org.CreatedAt = createdAt.Time
	org.UpdatedAt = updatedAt.Time
	return &org, nil
}

// Update changes the organization name.
func (r *Repository) Update(ctx context.Context, id int64, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET name = $2, updated_at = NOW() WHERE id = $1`,
		id, name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListMembers returns all members of an organization with account details.
func (r *Repository) ListMembers(ctx context.Context, orgID int64) ([]Member, error) {
	const query = `
		SELECT m.org_id, m.user_id, u.email, u.name, m.role, m.created_at
		FROM org_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.org_id = $1
		ORDER BY m.created_at`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&m.OrgID, &m.UserID, &m.Email, &m.Name, &m.Role, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = createdAt.Time
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember inserts a membership row.
func (r *Repository) AddMember(ctx context.Context, orgID, userID int64, role string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO org_members (org_id, user_id, role, created_at) VALUES ($1, $2, $3, NOW())`,
		orgID, userID, role,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateMember
	}
	return err
}

// UpdateMemberRole changes a member's role.
func (r *Repository) UpdateMemberRole(ctx context.Context, orgID, userID int64, role string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE org_members SET role = $3 WHERE org_id = $1 AND user_id = $2`,
		orgID, userID, role,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// RemoveMember deletes a membership row.
func (r *Repository) RemoveMember(ctx context.Context, orgID, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM org_members WHERE org_id = $1 AND user_id = $2`,
		orgID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// RoleFor resolves a user's role within an organization. Satisfies the
// rbac membership lookup port.
func (r *Repository) RoleFor(ctx context.Context, orgID, userID int64) (string, error) {
	const query = `SELECT role FROM org_members WHERE org_id = $1 AND user_id = $2`

	var role string
	err := r.pool.QueryRow(ctx, query, orgID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", httpx.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// Usage counts quota-relevant resources for an organization.
func (r *Repository) Usage(ctx context.Context, orgID int64) (buildings, units, members int, err error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM buildings WHERE org_id = $1),
			(SELECT COUNT(*) FROM units u JOIN buildings b ON b.id = u.building_id WHERE b.org_id = $1),
			(SELECT COUNT(*) FROM org_members WHERE org_id = $1)`

	err = r.pool.QueryRow(ctx, query, orgID).Scan(&buildings, &units, &members)
	return
}

// ActiveOrgIDs returns every organization id. Used by the scheduled
// reminder scan in the worker.
func (r *Repository) ActiveOrgIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM organizations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
