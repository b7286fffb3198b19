package helpdesk

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Service implements ticket business logic.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService creates the helpdesk service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// List returns tickets, optionally filtered by status.
func (s *Service) List(ctx context.Context, orgID int64, status string) ([]Ticket, error) {
	if status != "" {
		switch status {
		case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		default:
			return nil, fmt.Errorf("unknown status %q: %w", status, httpx.ErrValidation)
		}
	}
	return s.repo.List(ctx, orgID, status)
}

// Get returns one ticket.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Ticket, error) {
	return s.repo.Get(ctx, orgID, id)
}

// Open creates a new ticket in the open state.
func (s *Service) Open(ctx context.Context, t Ticket) (*Ticket, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", httpx.ErrValidation)
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !ValidPriority(t.Priority) {
		return nil, fmt.Errorf("unknown priority %q: %w", t.Priority, httpx.ErrValidation)
	}
	t.Status = StatusOpen

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("open ticket: %w", err)
	}
	s.logger.Info("ticket opened",
		slog.Int64("org_id", created.OrgID),
		slog.Int64("ticket_id", created.ID),
		slog.String("priority", created.Priority))
	return created, nil
}

// Transition moves a ticket to a new lifecycle status.
func (s *Service) Transition(ctx context.Context, orgID, id int64, to string) (*Ticket, error) {
	t, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.Status, to) {
		return nil, fmt.Errorf("cannot move ticket from %s to %s: %w", t.Status, to, httpx.ErrValidation)
	}
	if err := s.repo.UpdateStatus(ctx, orgID, id, to, to == StatusResolved); err != nil {
		return nil, err
	}
	s.logger.Info("ticket status changed",
		slog.Int64("org_id", orgID),
		slog.Int64("ticket_id", id),
		slog.String("from", t.Status),
		slog.String("to", to))
	return s.repo.Get(ctx, orgID, id)
}

// Comments returns the ticket's comment thread.
func (s *Service) Comments(ctx context.Context, orgID, ticketID int64) ([]Comment, error) {
	if _, err := s.repo.Get(ctx, orgID, ticketID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, orgID, ticketID)
}

// Comment appends a message to the ticket's thread.
func (s *Service) Comment(ctx context.Context, orgID int64, c Comment) (*Comment, error) {
	if strings.TrimSpace(c.Body) == "" {
		return nil, fmt.Errorf("comment body is required: %w", httpx.ErrValidation)
	}
	return s.repo.AddComment(ctx, orgID, c)
}
