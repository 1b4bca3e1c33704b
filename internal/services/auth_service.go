package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the claims
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents the JWT claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token issuance
type AuthService struct {
	userRepo *store.UserRepository
	cfg      config.AuthConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *store.UserRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Register creates a new account and signs the user in
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthToken, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)

	if username == "" || email == "" {
		return nil, apperr.Validation("username and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = username
	}

	user := &models.User{
		Username:       username,
		DisplayName:    displayName,
		HashedPassword: string(hashed),
		Email:          email,
		Wallet:         req.Wallet,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}

	return s.issueTokens(user)
}

// Login authenticates an existing account
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthToken, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.Validation("user with that email doesn't exist")
	}

	if user.IsBlocked {
		return nil, apperr.Forbidden("account is blocked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	return s.issueTokens(user)
}

// Refresh validates a refresh token and rotates the token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthToken, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil || claims.TokenType != TokenTypeRefresh {
		return nil, apperr.Unauthorized("invalid token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil || user.IsBlocked {
		return nil, apperr.Unauthorized("invalid token")
	}

	return s.issueTokens(user)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *AuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, apperr.Unauthorized("invalid token")
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperr.Unauthorized("invalid token")
	}
	return claims, nil
}

// RefreshTokenMaxAge returns the refresh cookie lifetime in seconds
func (s *AuthService) RefreshTokenMaxAge() int {
	return s.cfg.RefreshTokenExpires * 60
}

func (s *AuthService) issueTokens(user *models.User) (*models.AuthToken, error) {
	accessToken, expiresAt, err := s.generateToken(user, TokenTypeAccess,
		time.Duration(s.cfg.AccessTokenExpires)*time.Minute)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, _, err := s.generateToken(user, TokenTypeRefresh,
		time.Duration(s.cfg.RefreshTokenExpires)*time.Minute)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &models.AuthToken{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

func (s *AuthService) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Check the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// generateToken generates a signed JWT for a user
func (s *AuthService) generateToken(user *models.User, tokenType string, lifetime time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(lifetime)

	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "mintora-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}
