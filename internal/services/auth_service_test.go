package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := store.NewDatabaseFromConn(sqlx.NewDb(mockDB, "sqlmock"))

	svc := NewAuthService(store.NewUserRepository(db), config.AuthConfig{
		JWTSecret:           "test-secret",
		AccessTokenExpires:  15,
		RefreshTokenExpires: 60,
	})

	return svc, mock
}

func emptyUserRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "display_name", "hashed_password", "email", "wallet", "role",
		"balance", "is_active", "is_blocked", "avatar", "background", "bio", "created_at", "updated_at",
	})
}

func userRowsWithPassword(t *testing.T, id int64, password string, blocked bool) *sqlmock.Rows {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return emptyUserRows().AddRow(id, "ada", "Ada", string(hashed), "ada@example.com", "w", models.RoleUser,
		"0", true, blocked, "", "", nil, time.Now().UTC(), time.Now().UTC())
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(emptyUserRows())
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = .+`).WithArgs("ada").
		WillReturnRows(emptyUserRows())
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	token, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, token.AccessToken)
	assert.NotEmpty(t, token.RefreshToken)
	assert.Equal(t, int64(5), token.User.ID)
	assert.Equal(t, "ada", token.User.Username)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateAccessToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, mock := newAuthService(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(userRowsWithPassword(t, 5, "whatever123", false))

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginChecksPassword(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(userRowsWithPassword(t, 5, "correct horse", false))

	token, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(userRowsWithPassword(t, 5, "correct horse", false))

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLoginRejectsBlockedAccount(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(userRowsWithPassword(t, 5, "correct horse", true))

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(userRowsWithPassword(t, 5, "correct horse", false))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = .+`).WithArgs(int64(5)).
		WillReturnRows(userRowsWithPassword(t, 5, "correct horse", false))

	token, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(userRowsWithPassword(t, 5, "correct horse", false))

	token, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	// An access token must not pass as a refresh token
	_, err = svc.Refresh(context.Background(), token.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ValidateAccessToken("not-a-token")
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsForeignSignature(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = .+`).WithArgs("ada@example.com").
		WillReturnRows(userRowsWithPassword(t, 5, "correct horse", false))

	token, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	other := NewAuthService(
		store.NewUserRepository(store.NewDatabaseFromConn(sqlx.NewDb(mockDB, "sqlmock"))),
		config.AuthConfig{JWTSecret: "different-secret", AccessTokenExpires: 15, RefreshTokenExpires: 60},
	)

	_, err = other.ValidateAccessToken(token.AccessToken)
	require.Error(t, err)
}
