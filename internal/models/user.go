package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role values for User.Role
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a marketplace account
type User struct {
	ID             int64           `json:"id" db:"id"`
	Username       string          `json:"username" db:"username"`
	DisplayName    string          `json:"display_name" db:"display_name"`
	HashedPassword string          `json:"-" db:"hashed_password"`
	Email          string          `json:"email" db:"email"`
	Wallet         string          `json:"wallet" db:"wallet"`
	Role           string          `json:"role" db:"role"`
	Balance        decimal.Decimal `json:"balance" db:"balance"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	IsBlocked      bool            `json:"is_blocked" db:"is_blocked"`
	Avatar         string          `json:"profile_avatar" db:"avatar"`
	Background     string          `json:"profile_background" db:"background"`
	Bio            *string         `json:"bio,omitempty" db:"bio"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Follower represents a follow relation between two users
type Follower struct {
	ID         int64     `json:"id" db:"id"`
	FollowerID int64     `json:"follower_id" db:"follower_id"`
	FollowedID int64     `json:"followed_id" db:"followed_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest represents an account creation request
type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Wallet      string `json:"wallet_id"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthToken represents the authentication token response
type AuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user,omitempty"`
}

// ProfileUpdateRequest represents an editable-profile update
type ProfileUpdateRequest struct {
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Bio         *string `json:"bio"`
}

// AddFundsRequest represents a manual balance top-up
type AddFundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ProfileTab values for ProfileFilterRequest.CurrentTab
const (
	ProfileTabOwned   = 1
	ProfileTabCreated = 2
	ProfileTabLiked   = 5
)

// ProfileFilterRequest represents the profile NFT listing filters
type ProfileFilterRequest struct {
	CurrentTab int    `json:"currentTab"`
	SortBy     int    `json:"sortBy"`
	Search     string `json:"search"`
}
