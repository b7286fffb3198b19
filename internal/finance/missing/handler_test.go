package missing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/syndik/syndik/internal/rbac"
	"github.com/syndik/syndik/internal/shared"
)

type staticMemberships struct {
	role string
}

func (m staticMemberships) RoleFor(ctx context.Context, orgID, userID int64) (string, error) {
	return m.role, nil
}

func newHandlerRouter(t *testing.T, notifier *memoryNotifier) http.Handler {
	t.Helper()
	svc := newTestService(threeUnitRepo())
	dispatcher := NewDispatcher(testLogger(), notifier, nil)
	mw := rbac.Middleware{
		Service: rbac.NewService(staticMemberships{role: rbac.RoleManager}),
		Logger:  testLogger(),
	}
	handler := NewHandler(testLogger(), svc, dispatcher, nil, mw)

	r := chi.NewRouter()
	r.Route("/api/finance/missing-payments", handler.MountRoutes)
	return r
}

func managerSession(t *testing.T, orgID int64) *shared.Session {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	manager := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetUser("42")
	if orgID > 0 {
		sess.SetOrg(orgID)
	}
	return sess
}

func doRequest(router http.Handler, sess *shared.Session, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQueryMissingPayments(t *testing.T) {
	router := newHandlerRouter(t, &memoryNotifier{})
	sess := managerSession(t, 1)

	rec := doRequest(router, sess, http.MethodGet, "/api/finance/missing-payments?month=6&year=2025", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var set MissingSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.Equal(t, 2, set.TotalMissing)
	require.Len(t, set.Units, 2)

	// Money crosses the boundary as decimal strings.
	body := rec.Body.String()
	require.Contains(t, body, `"totalExpectedAmount":"350"`)
	require.Contains(t, body, `"monthlyFee":"150"`)
}

func TestQueryInvalidPeriod(t *testing.T) {
	router := newHandlerRouter(t, &memoryNotifier{})
	sess := managerSession(t, 1)

	rec := doRequest(router, sess, http.MethodGet, "/api/finance/missing-payments?month=13&year=2025", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid Period")
}

func TestQueryRequiresOrgContext(t *testing.T) {
	router := newHandlerRouter(t, &memoryNotifier{})

	rec := doRequest(router, nil, http.MethodGet, "/api/finance/missing-payments?month=6&year=2025", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	noOrg := managerSession(t, 0)
	rec = doRequest(router, noOrg, http.MethodGet, "/api/finance/missing-payments?month=6&year=2025", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDispatchOneRejectsCoveredUnit(t *testing.T) {
	notifier := &memoryNotifier{}
	router := newHandlerRouter(t, notifier)
	sess := managerSession(t, 1)

	// Unit 1 already has an income record for the period.
	rec := doRequest(router, sess, http.MethodPost, "/api/finance/missing-payments/reminders/unit",
		`{"month":6,"year":2025,"unitId":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, notifier.created)
}

func TestDispatchAllReportsOutcome(t *testing.T) {
	notifier := &memoryNotifier{}
	router := newHandlerRouter(t, notifier)
	sess := managerSession(t, 1)

	rec := doRequest(router, sess, http.MethodPost, "/api/finance/missing-payments/reminders",
		`{"month":6,"year":2025}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report DispatchReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, OutcomeAllSent, report.Outcome)
	require.ElementsMatch(t, []int64{2, 3}, report.Sent)
	require.Len(t, notifier.created, 2)
}

func TestEnqueueWithoutWorkerIsUnavailable(t *testing.T) {
	router := newHandlerRouter(t, &memoryNotifier{})
	sess := managerSession(t, 1)

	rec := doRequest(router, sess, http.MethodPost, "/api/finance/missing-payments/reminders/enqueue",
		`{"month":6,"year":2025}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
