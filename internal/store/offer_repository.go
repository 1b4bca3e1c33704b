package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mintora/mintora-api/internal/models"
)

// OfferRepository handles database operations related to offers
type OfferRepository struct {
	db *Database
}

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(db *Database) *OfferRepository {
	return &OfferRepository{
		db: db,
	}
}

const offerColumns = `id, nft_id, buyer_id, owner_id, price_at_offer, amount,
	expires_at, created_at, is_accepted, is_cancelled`

// GetByID retrieves an offer by ID
func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*models.Offer, error) {
	offer := &models.Offer{}
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, offer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return offer, nil
}

// Create inserts a new offer
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	offer.CreatedAt = time.Now().UTC()

	query := `INSERT INTO offers (nft_id, buyer_id, owner_id, price_at_offer, amount,
			 expires_at, created_at, is_accepted, is_cancelled)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, FALSE)
			 RETURNING id`

	return r.db.GetDB().QueryRowContext(ctx, query,
		offer.NFTID, offer.BuyerID, offer.OwnerID, offer.PriceAtOffer,
		offer.Amount, offer.ExpiresAt, offer.CreatedAt).Scan(&offer.ID)
}

// HasActiveOffer reports whether the buyer already has an active offer on
// the NFT against its current owner
func (r *OfferRepository) HasActiveOffer(ctx context.Context, nftID, buyerID, ownerID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM offers
			 WHERE nft_id = $1 AND buyer_id = $2 AND owner_id = $3
			 AND is_accepted = FALSE AND is_cancelled = FALSE AND expires_at > $4`

	err := r.db.GetDB().GetContext(ctx, &count, query, nftID, buyerID, ownerID, time.Now().UTC())
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ByOwner retrieves offers received by a user, newest first
func (r *OfferRepository) ByOwner(ctx context.Context, ownerID int64) ([]models.Offer, error) {
	offers := []models.Offer{}
	query := `SELECT ` + offerColumns + ` FROM offers WHERE owner_id = $1 ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &offers, query, ownerID); err != nil {
		return nil, err
	}

	return offers, nil
}

// Completed retrieves accepted offers, newest first
func (r *OfferRepository) Completed(ctx context.Context) ([]models.Offer, error) {
	offers := []models.Offer{}
	query := `SELECT ` + offerColumns + ` FROM offers WHERE is_accepted = TRUE ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &offers, query); err != nil {
		return nil, err
	}

	return offers, nil
}

// List retrieves every offer, newest first. Admin dashboard use.
func (r *OfferRepository) List(ctx context.Context) ([]models.Offer, error) {
	offers := []models.Offer{}
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &offers, query); err != nil {
		return nil, err
	}

	return offers, nil
}

// Cancel marks an offer cancelled
func (r *OfferRepository) Cancel(ctx context.Context, id int64) error {
	query := `UPDATE offers SET is_cancelled = TRUE WHERE id = $1`
	_, err := r.db.GetDB().ExecContext(ctx, query, id)
	return err
}
