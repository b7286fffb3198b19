package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syndik/syndik/internal/platform/httpx"
)

const defaultPageSize = 50

// Service implements notification business logic.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService creates the notifications service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// List returns notifications for the organization.
func (s *Service) List(ctx context.Context, orgID int64, unreadOnly bool, limit, offset int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, orgID, unreadOnly, limit, offset)
}

// ListByResident returns a resident's notifications.
func (s *Service) ListByResident(ctx context.Context, orgID, residentID int64) ([]Notification, error) {
	return s.repo.ListByResident(ctx, orgID, residentID)
}

// Get returns one notification.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Notification, error) {
	return s.repo.Get(ctx, orgID, id)
}

// Create records a notification after validating its payload.
func (s *Service) Create(ctx context.Context, n Notification) (*Notification, error) {
	n.Subject = strings.TrimSpace(n.Subject)
	n.Body = strings.TrimSpace(n.Body)
	if n.ResidentID <= 0 {
		return nil, fmt.Errorf("resident is required: %w", httpx.ErrValidation)
	}
	if n.Subject == "" {
		return nil, fmt.Errorf("subject is required: %w", httpx.ErrValidation)
	}
	switch n.Kind {
	case KindPaymentReminder, KindMeetingNotice, KindGeneral:
	case "":
		n.Kind = KindGeneral
	default:
		return nil, fmt.Errorf("unknown notification kind %q: %w", n.Kind, httpx.ErrValidation)
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	s.logger.Info("notification created",
		slog.Int64("org_id", created.OrgID),
		slog.Int64("resident_id", created.ResidentID),
		slog.String("kind", string(created.Kind)))
	return created, nil
}

// MarkRead stamps a notification as read.
func (s *Service) MarkRead(ctx context.Context, orgID, id int64) error {
	return s.repo.MarkRead(ctx, orgID, id)
}

// UnreadCount returns how many notifications remain unread.
func (s *Service) UnreadCount(ctx context.Context, orgID int64) (int64, error) {
	return s.repo.CountUnread(ctx, orgID)
}
