package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/services"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceForTest(t *testing.T) (*services.AuthService, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := store.NewDatabaseFromConn(sqlx.NewDb(mockDB, "sqlmock"))
	svc := services.NewAuthService(store.NewUserRepository(db), config.AuthConfig{
		JWTSecret:           "test-secret",
		AccessTokenExpires:  15,
		RefreshTokenExpires: 60,
	})

	return svc, mock
}

func registerTestUser(t *testing.T, svc *services.AuthService, mock sqlmock.Sqlmock, id int64) *models.AuthToken {
	t.Helper()

	emptyRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "username", "display_name", "hashed_password", "email", "wallet", "role",
			"balance", "is_active", "is_blocked", "avatar", "background", "bio", "created_at", "updated_at",
		})
	}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WillReturnRows(emptyRows())
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = .+`).WillReturnRows(emptyRows())
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	token, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	return token
}

func TestAuthMiddlewareAttachesUser(t *testing.T) {
	svc, mock := newAuthServiceForTest(t)
	token := registerTestUser(t, svc, mock, 5)

	var gotID int64
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
		gotRole, _ = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	rec := httptest.NewRecorder()

	AuthMiddleware(svc)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), gotID)
	assert.Equal(t, models.RoleUser, gotRole)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer bad.token.here"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		AuthMiddleware(svc)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestOptionalAuthMiddlewareAllowsAnonymous(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)

	var authenticated bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authenticated = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	OptionalAuthMiddleware(svc)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestAdminMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	adminReq := httptest.NewRequest(http.MethodGet, "/", nil)
	adminReq = adminReq.WithContext(NewContextWithUser(adminReq.Context(), 1, models.RoleAdmin))
	rec := httptest.NewRecorder()
	AdminMiddleware(next).ServeHTTP(rec, adminReq)
	assert.Equal(t, http.StatusOK, rec.Code)

	userReq := httptest.NewRequest(http.MethodGet, "/", nil)
	userReq = userReq.WithContext(NewContextWithUser(userReq.Context(), 2, models.RoleUser))
	rec = httptest.NewRecorder()
	AdminMiddleware(next).ServeHTTP(rec, userReq)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	anonReq := httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	AdminMiddleware(next).ServeHTTP(rec, anonReq)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimiterThrottlesPerClient(t *testing.T) {
	limiter := NewRateLimiter(1)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := limiter.Handler(next)

	first := httptest.NewRequest(http.MethodPost, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/", nil)
	second.RemoteAddr = "10.0.0.1:1235"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected
	other := httptest.NewRequest(http.MethodPost, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
