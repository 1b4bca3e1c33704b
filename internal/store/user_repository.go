package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mintora/mintora-api/internal/models"
	"github.com/shopspring/decimal"
)

// UserRepository handles database operations related to users
type UserRepository struct {
	db *Database
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, username, display_name, hashed_password, email, wallet, role,
	balance, is_active, is_blocked, avatar, background, bio, created_at, updated_at`

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetDB().GetContext(ctx, user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	err := r.db.GetDB().GetContext(ctx, user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// Create inserts a new user and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsActive = true

	query := `INSERT INTO users (username, display_name, hashed_password, email, wallet, role,
			 balance, is_active, is_blocked, avatar, background, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'defaultAvatar.png', 'defaultBg.png', $10, $11)
			 RETURNING id`

	return r.db.GetDB().QueryRowContext(ctx, query,
		user.Username, user.DisplayName, user.HashedPassword, user.Email, user.Wallet,
		user.Role, user.Balance, user.IsActive, user.IsBlocked,
		user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
}

// UpdateProfile updates the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, displayName, email string, bio *string) error {
	query := `UPDATE users SET display_name = $1, email = $2, bio = $3, updated_at = $4 WHERE id = $5`
	_, err := r.db.GetDB().ExecContext(ctx, query, displayName, email, bio, time.Now().UTC(), id)
	return err
}

// EmailInUse reports whether another user already has the email
func (r *UserRepository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE email = $1 AND id != $2`
	if err := r.db.GetDB().GetContext(ctx, &count, query, email, excludeID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddFunds increments the user balance. Manual top-up is the only balance
// mutation outside settlement.
func (r *UserRepository) AddFunds(ctx context.Context, id int64, amount decimal.Decimal) error {
	query := `UPDATE users SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.GetDB().ExecContext(ctx, query, amount, time.Now().UTC(), id)
	return err
}

// List retrieves all users, newest first
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	err := r.db.GetDB().SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// SetBlocked flips the blocked flag on a user
func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	query := `UPDATE users SET is_blocked = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.GetDB().ExecContext(ctx, query, blocked, time.Now().UTC(), id)
	return err
}

// Follow records a follow relation; repeated follows are no-ops
func (r *UserRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	query := `INSERT INTO followers (follower_id, followed_id) VALUES ($1, $2)
			 ON CONFLICT (follower_id, followed_id) DO NOTHING`
	_, err := r.db.GetDB().ExecContext(ctx, query, followerID, followedID)
	return err
}

// Unfollow removes a follow relation if present
func (r *UserRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	query := `DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`
	_, err := r.db.GetDB().ExecContext(ctx, query, followerID, followedID)
	return err
}

// IsFollowing reports whether follower follows followed
func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM followers WHERE follower_id = $1 AND followed_id = $2`
	if err := r.db.GetDB().GetContext(ctx, &count, query, followerID, followedID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search retrieves users whose username contains the query
func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users
			 WHERE LOWER(username) LIKE '%' || $1 || '%'
			 LIMIT $2`

	err := r.db.GetDB().SelectContext(ctx, &users, query, q, limit)
	if err != nil {
		return nil, err
	}

	return users, nil
}
