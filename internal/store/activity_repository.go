package store

import (
	"context"
	"database/sql"

	"github.com/mintora/mintora-api/internal/models"
)

// ActivityRepository handles likes and views analytics rows
type ActivityRepository struct {
	db *Database
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *Database) *ActivityRepository {
	return &ActivityRepository{
		db: db,
	}
}

// GetLike retrieves a user's like on an NFT, nil when absent
func (r *ActivityRepository) GetLike(ctx context.Context, nftID, userID int64) (*models.Like, error) {
	likes := []models.Like{}
	query := `SELECT id, nft_id, user_id, token_id, created_at FROM likes
			 WHERE nft_id = $1 AND user_id = $2`

	if err := r.db.GetDB().SelectContext(ctx, &likes, query, nftID, userID); err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return nil, nil
	}

	return &likes[0], nil
}

// AddLike records a like. A concurrent duplicate is a no-op.
func (r *ActivityRepository) AddLike(ctx context.Context, like *models.Like) error {
	query := `INSERT INTO likes (nft_id, user_id, token_id) VALUES ($1, $2, $3)
			 ON CONFLICT (nft_id, user_id) DO NOTHING
			 RETURNING id`

	err := r.db.GetDB().QueryRowContext(ctx, query, like.NFTID, like.UserID, like.TokenID).Scan(&like.ID)
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

// RemoveLike deletes a like
func (r *ActivityRepository) RemoveLike(ctx context.Context, nftID, userID int64) error {
	query := `DELETE FROM likes WHERE nft_id = $1 AND user_id = $2`
	_, err := r.db.GetDB().ExecContext(ctx, query, nftID, userID)
	return err
}

// RecordView records a page view once per user and NFT
func (r *ActivityRepository) RecordView(ctx context.Context, view *models.View) error {
	query := `INSERT INTO views (nft_id, user_id, token_id) VALUES ($1, $2, $3)
			 ON CONFLICT (nft_id, user_id) DO NOTHING`
	_, err := r.db.GetDB().ExecContext(ctx, query, view.NFTID, view.UserID, view.TokenID)
	return err
}

// Likes retrieves all likes, newest first. Admin analytics use.
func (r *ActivityRepository) Likes(ctx context.Context) ([]models.Like, error) {
	likes := []models.Like{}
	query := `SELECT id, nft_id, user_id, token_id, created_at FROM likes ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &likes, query); err != nil {
		return nil, err
	}

	return likes, nil
}

// Views retrieves all views, newest first. Admin analytics use.
func (r *ActivityRepository) Views(ctx context.Context) ([]models.View, error) {
	views := []models.View{}
	query := `SELECT id, nft_id, user_id, token_id, created_at FROM views ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &views, query); err != nil {
		return nil, err
	}

	return views, nil
}
