package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/syndik/syndik/internal/auth"
	"github.com/syndik/syndik/internal/platform/httpx"
	"github.com/syndik/syndik/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthRouter(handler *auth.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		handler.MountRoutes(r)
	})
	return r
}

type stubRepo struct {
	user  *auth.User
	orgID int64
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, httpx.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) DefaultOrg(ctx context.Context, userID int64) (int64, error) {
	if s.orgID == 0 {
		return 0, shared.ErrNoOrganization
	}
	return s.orgID, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	handler := auth.NewHandler(testLogger(), auth.NewService(repo), sessionManager, csrfManager)
	return handler, sessionManager
}

func activeUser(t *testing.T) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           1,
		Email:        "syndic@residence.test",
		Name:         "Syndic",
		PasswordHash: string(hashed),
		IsActive:     true,
	}
}

func doLogin(t *testing.T, handler *auth.Handler, sessions *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	router := newAuthRouter(handler)
	router.ServeHTTP(res, req)
	return res, sess
}

func TestLoginSuccess(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t), orgID: 42})

	res, sess := doLogin(t, handler, sessions,
		`{"email":"syndic@residence.test","password":"correctpass"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.Equal(t, float64(1), payload["userId"])
	require.Equal(t, float64(42), payload["orgId"])

	require.Equal(t, int64(1), sess.UserID())
	require.Equal(t, int64(42), sess.Org())
}

func TestLoginWrongPassword(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t), orgID: 42})

	res, _ := doLogin(t, handler, sessions,
		`{"email":"syndic@residence.test","password":"wrongpassword"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	handler, sessions := newAuthHandler(t, &stubRepo{user: user, orgID: 42})

	res, _ := doLogin(t, handler, sessions,
		`{"email":"syndic@residence.test","password":"correctpass"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginWithoutOrganization(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t)})

	res, _ := doLogin(t, handler, sessions,
		`{"email":"syndic@residence.test","password":"correctpass"}`)
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestLoginValidatesBody(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t), orgID: 42})

	res, _ := doLogin(t, handler, sessions, `{"email":"not-an-email","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}
