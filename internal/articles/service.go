package articles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Service implements article business logic.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService creates the articles service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

func (s *Service) validate(a Article) error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("title is required: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(a.Content) == "" {
		return fmt.Errorf("content is required: %w", httpx.ErrValidation)
	}
	return nil
}

// List returns articles of the organization.
func (s *Service) List(ctx context.Context, orgID int64, publishedOnly bool) ([]Article, error) {
	return s.repo.List(ctx, orgID, publishedOnly)
}

// Get returns one article.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Article, error) {
	return s.repo.Get(ctx, orgID, id)
}

// Search ranks published articles against a query string.
func (s *Service) Search(ctx context.Context, orgID int64, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", httpx.ErrValidation)
	}
	items, err := s.repo.List(ctx, orgID, true)
	if err != nil {
		return nil, err
	}
	return Rank(items, query), nil
}

// Create validates and stores an article.
func (s *Service) Create(ctx context.Context, a Article) (*Article, error) {
	if err := s.validate(a); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	s.logger.Info("article created",
		slog.Int64("org_id", created.OrgID),
		slog.String("title", created.Title))
	return created, nil
}

// Update modifies an article.
func (s *Service) Update(ctx context.Context, orgID, id int64, a Article) error {
	if err := s.validate(a); err != nil {
		return err
	}
	return s.repo.Update(ctx, orgID, id, a)
}

// Delete removes an article.
func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	return s.repo.Delete(ctx, orgID, id)
}
