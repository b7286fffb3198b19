package helpdesk

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/syndik/syndik/internal/platform/httpx"
)

type memoryTicketRepo struct {
	tickets  map[int64]*Ticket
	comments map[int64][]Comment
	nextID   int64
}

func newMemoryTicketRepo() *memoryTicketRepo {
	return &memoryTicketRepo{
		tickets:  make(map[int64]*Ticket),
		comments: make(map[int64][]Comment),
	}
}

func (r *memoryTicketRepo) List(ctx context.Context, orgID int64, status string) ([]Ticket, error) {
	var out []Ticket
	for _, t := range r.tickets {
		if status == "" || t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memoryTicketRepo) Get(ctx context.Context, orgID, id int64) (*Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memoryTicketRepo) Create(ctx context.Context, t Ticket) (*Ticket, error) {
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.tickets[t.ID] = &t
	copied := t
	return &copied, nil
}

func (r *memoryTicketRepo) UpdateStatus(ctx context.Context, orgID, id int64, status string, resolved bool) error {
	t, ok := r.tickets[id]
	if !ok {
		return httpx.ErrNotFound
	}
	t.Status = status
	if resolved {
		now := time.Now()
		t.ResolvedAt = &now
	} else {
		t.ResolvedAt = nil
	}
	return nil
}

func (r *memoryTicketRepo) ListComments(ctx context.Context, orgID, ticketID int64) ([]Comment, error) {
	return r.comments[ticketID], nil
}

func (r *memoryTicketRepo) AddComment(ctx context.Context, orgID int64, c Comment) (*Comment, error) {
	if _, ok := r.tickets[c.TicketID]; !ok {
		return nil, httpx.ErrNotFound
	}
	c.ID = int64(len(r.comments[c.TicketID]) + 1)
	c.CreatedAt = time.Now()
	r.comments[c.TicketID] = append(r.comments[c.TicketID], c)
	return &c, nil
}

func newTicketService(repo Repository) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func TestOpenTicketDefaults(t *testing.T) {
	svc := newTicketService(newMemoryTicketRepo())

	created, err := svc.Open(context.Background(), Ticket{OrgID: 1, Title: "Leaking pipe"})
	require.NoError(t, err)
	require.Equal(t, StatusOpen, created.Status)
	require.Equal(t, PriorityMedium, created.Priority)
}

func TestOpenTicketRequiresTitle(t *testing.T) {
	svc := newTicketService(newMemoryTicketRepo())

	_, err := svc.Open(context.Background(), Ticket{OrgID: 1, Title: "  "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestTicketLifecycle(t *testing.T) {
	repo := newMemoryTicketRepo()
	svc := newTicketService(repo)

	created, err := svc.Open(context.Background(), Ticket{OrgID: 1, Title: "Broken intercom"})
	require.NoError(t, err)

	inProgress, err := svc.Transition(context.Background(), 1, created.ID, StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, inProgress.Status)

	resolved, err := svc.Transition(context.Background(), 1, created.ID, StatusResolved)
	require.NoError(t, err)
	require.Equal(t, StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	closed, err := svc.Transition(context.Background(), 1, created.ID, StatusClosed)
	require.NoError(t, err)
	require.Equal(t, StatusClosed, closed.Status)
}

func TestTicketCannotSkipToResolved(t *testing.T) {
	repo := newMemoryTicketRepo()
	svc := newTicketService(repo)

	created, err := svc.Open(context.Background(), Ticket{OrgID: 1, Title: "Noise complaint"})
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), 1, created.ID, StatusResolved)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestTicketClosedIsTerminal(t *testing.T) {
	repo := newMemoryTicketRepo()
	svc := newTicketService(repo)

	created, err := svc.Open(context.Background(), Ticket{OrgID: 1, Title: "Gate stuck"})
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), 1, created.ID, StatusClosed)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), 1, created.ID, StatusInProgress)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestTicketReopenFromResolved(t *testing.T) {
	repo := newMemoryTicketRepo()
	svc := newTicketService(repo)

	created, err := svc.Open(context.Background(), Ticket{OrgID: 1, Title: "Heating"})
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), 1, created.ID, StatusInProgress)
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), 1, created.ID, StatusResolved)
	require.NoError(t, err)

	reopened, err := svc.Transition(context.Background(), 1, created.ID, StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, reopened.Status)
	require.Nil(t, reopened.ResolvedAt)
}

func TestTicketComment(t *testing.T) {
	repo := newMemoryTicketRepo()
	svc := newTicketService(repo)

	created, err := svc.Open(context.Background(), Ticket{OrgID: 1, Title: "Lift"})
	require.NoError(t, err)

	c, err := svc.Comment(context.Background(), 1, Comment{TicketID: created.ID, AuthorID: 5, Body: "Technician booked"})
	require.NoError(t, err)
	require.Equal(t, "Technician booked", c.Body)

	_, err = svc.Comment(context.Background(), 1, Comment{TicketID: created.ID, AuthorID: 5, Body: " "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
