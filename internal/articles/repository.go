package articles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Repository defines persistence operations for articles.
type Repository interface {
	List(ctx context.Context, orgID int64, publishedOnly bool) ([]Article, error)
	Get(ctx context.Context, orgID, id int64) (*Article, error)
	Create(ctx context.Context, a Article) (*Article, error)
	Update(ctx context.Context, orgID, id int64, a Article) error
	Delete(ctx context.Context, orgID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const articleColumns = `
	id, org_id, title, excerpt, content, category, published, created_at, updated_at`

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&a.ID, &a.OrgID, &a.Title, &a.Excerpt, &a.Content,
		&a.Category, &a.Published, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

// List returns articles, newest first.
func (r *repository) List(ctx context.Context, orgID int64, publishedOnly bool) ([]Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE org_id = $1`
	if publishedOnly {
		query += ` AND published = TRUE`
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Get retrieves one article scoped to the organization.
func (r *repository) Get(ctx context.Context, orgID, id int64) (*Article, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE org_id = $1 AND id = $2`, orgID, id)

	a, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an article.
func (r *repository) Create(ctx context.Context, a Article) (*Article, error) {
	const query = `
		INSERT INTO articles (org_id, title, excerpt, content, category, published,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, query,
		a.OrgID, a.Title, a.Excerpt, a.Content, a.Category, a.Published,
	).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

// Update modifies an article scoped to the organization.
func (r *repository) Update(ctx context.Context, orgID, id int64, a Article) error {
	const query = `
		UPDATE articles
		SET title = $3, excerpt = $4, content = $5, category = $6, published = $7,
			updated_at = NOW()
		WHERE org_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, orgID, id,
		a.Title, a.Excerpt, a.Content, a.Category, a.Published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes an article scoped to the organization.
func (r *repository) Delete(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
