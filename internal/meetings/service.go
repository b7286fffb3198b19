package meetings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Service implements meeting business logic.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService creates the meetings service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

func (s *Service) validate(m Meeting) error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("title is required: %w", httpx.ErrValidation)
	}
	if m.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled date is required: %w", httpx.ErrValidation)
	}
	return nil
}

// List returns meetings of the organization.
func (s *Service) List(ctx context.Context, orgID int64, upcomingOnly bool) ([]Meeting, error) {
	return s.repo.List(ctx, orgID, upcomingOnly)
}

// Get returns one meeting.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Meeting, error) {
	return s.repo.Get(ctx, orgID, id)
}

// Schedule validates and stores a meeting.
func (s *Service) Schedule(ctx context.Context, m Meeting) (*Meeting, error) {
	if err := s.validate(m); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("schedule meeting: %w", err)
	}
	s.logger.Info("meeting scheduled",
		slog.Int64("org_id", created.OrgID),
		slog.String("title", created.Title))
	return created, nil
}

// Update modifies a meeting, including recording minutes afterwards.
func (s *Service) Update(ctx context.Context, orgID, id int64, m Meeting) error {
	if err := s.validate(m); err != nil {
		return err
	}
	return s.repo.Update(ctx, orgID, id, m)
}

// Delete removes a meeting.
func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	return s.repo.Delete(ctx, orgID, id)
}
