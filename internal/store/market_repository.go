package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/shopspring/decimal"
)

// Settlement failures. Every one of them aborts the transaction, so the
// caller never observes a partial transfer.
var (
	ErrNFTNotFound       = errors.New("nft not found")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrBlocked           = errors.New("nft or owner is blocked")
	ErrSelfPurchase      = errors.New("cannot buy an owned nft")
	ErrNotOwner          = errors.New("caller is not the nft owner")
	ErrOfferResolved     = errors.New("offer is no longer active")
	ErrOfferExpired      = errors.New("offer has expired")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// MarketRepository performs the atomic ownership and balance transfers for
// direct purchases and offer acceptance. All mutations run inside one
// transaction with the participating rows locked.
type MarketRepository struct {
	db *Database
}

// NewMarketRepository creates a new MarketRepository
func NewMarketRepository(db *Database) *MarketRepository {
	return &MarketRepository{
		db: db,
	}
}

// SaleResult summarises a completed settlement
type SaleResult struct {
	TokenID  string
	NFTName  string
	BuyerID  int64
	SellerID int64
	Price    decimal.Decimal
	Royalty  decimal.Decimal
}

// lockedNFT is the row image taken under FOR UPDATE
type lockedNFT struct {
	ID           int64           `db:"id"`
	TokenID      string          `db:"token_id"`
	Name         string          `db:"name"`
	Price        decimal.Decimal `db:"price"`
	OwnerID      int64           `db:"owner_id"`
	CollectionID *int64          `db:"collection_id"`
	IsBlocked    bool            `db:"is_blocked"`
}

// lockedUser is the row image taken under FOR UPDATE
type lockedUser struct {
	ID        int64           `db:"id"`
	Balance   decimal.Decimal `db:"balance"`
	IsBlocked bool            `db:"is_blocked"`
}

func lockNFTByTokenID(tx *sqlx.Tx, tokenID string) (*lockedNFT, error) {
	nft := &lockedNFT{}
	query := `SELECT id, token_id, name, price, owner_id, collection_id, is_blocked
			 FROM nfts WHERE token_id = $1 FOR UPDATE`
	if err := tx.Get(nft, query, tokenID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNFTNotFound
		}
		return nil, err
	}
	return nft, nil
}

func lockNFTByID(tx *sqlx.Tx, id int64) (*lockedNFT, error) {
	nft := &lockedNFT{}
	query := `SELECT id, token_id, name, price, owner_id, collection_id, is_blocked
			 FROM nfts WHERE id = $1 FOR UPDATE`
	if err := tx.Get(nft, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNFTNotFound
		}
		return nil, err
	}
	return nft, nil
}

// lockUsers locks user rows in ascending id order so concurrent settlements
// touching the same accounts cannot deadlock
func lockUsers(tx *sqlx.Tx, ids ...int64) (map[int64]*lockedUser, error) {
	ordered := append([]int64(nil), ids...)
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j] < ordered[i] {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	users := make(map[int64]*lockedUser, len(ordered))
	query := `SELECT id, balance, is_blocked FROM users WHERE id = $1 FOR UPDATE`
	for _, id := range ordered {
		if _, ok := users[id]; ok {
			continue
		}
		user := &lockedUser{}
		if err := tx.Get(user, query, id); err != nil {
			return nil, err
		}
		users[id] = user
	}

	return users, nil
}

func creditBalance(tx *sqlx.Tx, userID int64, amount decimal.Decimal) error {
	query := `UPDATE users SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	_, err := tx.Exec(query, amount, time.Now().UTC(), userID)
	return err
}

func debitBalance(tx *sqlx.Tx, userID int64, amount decimal.Decimal) error {
	query := `UPDATE users SET balance = balance - $1, updated_at = $2 WHERE id = $3`
	_, err := tx.Exec(query, amount, time.Now().UTC(), userID)
	return err
}

// BuyNFT settles a direct purchase at the listed price. The buyer is
// debited the full price; when the NFT belongs to a collection whose owner
// is not the seller, the collection owner receives the royalty share and
// the seller the remainder. Ownership moves to the buyer and the NFT is
// delisted, all in one transaction.
func (r *MarketRepository) BuyNFT(ctx context.Context, tokenID string, buyerID int64) (*SaleResult, error) {
	var result *SaleResult

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		nft, err := lockNFTByTokenID(tx, tokenID)
		if err != nil {
			return err
		}

		if nft.IsBlocked {
			return ErrBlocked
		}
		if nft.OwnerID == buyerID {
			return ErrSelfPurchase
		}

		// Royalty terms are read before locking balances
		var royaltyPct decimal.Decimal
		var collectionOwnerID *int64
		if nft.CollectionID != nil {
			var terms struct {
				Royalty decimal.Decimal `db:"royalty"`
				UserID  int64           `db:"user_id"`
			}
			query := `SELECT royalty, user_id FROM collections WHERE id = $1`
			if err := tx.Get(&terms, query, *nft.CollectionID); err != nil {
				return err
			}
			royaltyPct = terms.Royalty
			collectionOwnerID = &terms.UserID
		}

		participants := []int64{buyerID, nft.OwnerID}
		if collectionOwnerID != nil {
			participants = append(participants, *collectionOwnerID)
		}

		users, err := lockUsers(tx, participants...)
		if err != nil {
			return err
		}

		buyer := users[buyerID]
		seller := users[nft.OwnerID]
		if seller.IsBlocked {
			return ErrBlocked
		}
		if buyer.Balance.LessThan(nft.Price) {
			return ErrInsufficientFunds
		}

		royalty := decimal.Zero
		if collectionOwnerID != nil {
			royalty = nft.Price.Mul(royaltyPct.Div(decimal.NewFromInt(100)))
		}

		if err := debitBalance(tx, buyerID, nft.Price); err != nil {
			return err
		}

		if collectionOwnerID != nil && *collectionOwnerID == nft.OwnerID {
			// Seller owns the collection: full price, no royalty split
			royalty = decimal.Zero
			if err := creditBalance(tx, nft.OwnerID, nft.Price); err != nil {
				return err
			}
		} else {
			if collectionOwnerID != nil && royalty.IsPositive() {
				if err := creditBalance(tx, *collectionOwnerID, royalty); err != nil {
					return err
				}
			}
			if err := creditBalance(tx, nft.OwnerID, nft.Price.Sub(royalty)); err != nil {
				return err
			}
		}

		query := `UPDATE nfts SET owner_id = $1, is_listed = FALSE WHERE id = $2`
		if _, err := tx.Exec(query, buyerID, nft.ID); err != nil {
			return err
		}

		result = &SaleResult{
			TokenID:  nft.TokenID,
			NFTName:  nft.Name,
			BuyerID:  buyerID,
			SellerID: nft.OwnerID,
			Price:    nft.Price,
			Royalty:  royalty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AcceptOffer settles an accepted offer: the amount moves from buyer to
// seller in full, ownership transfers, the NFT price becomes the accepted
// amount, and every other open offer on the NFT is cancelled. A concurrent
// acceptance loses with ErrOfferResolved; an insufficient buyer balance
// aborts with no mutation and leaves the offer active.
func (r *MarketRepository) AcceptOffer(ctx context.Context, offerID, callerID int64) (*SaleResult, error) {
	var result *SaleResult

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		// Concurrent acceptances of different offers on the same NFT
		// serialize on the NFT row, so the offer's nft_id is read without
		// a lock and the NFT is locked before the offer. The loser then
		// finds its offer cancelled by the winner's sibling sweep.
		var nftID int64
		if err := tx.Get(&nftID, `SELECT nft_id FROM offers WHERE id = $1`, offerID); err != nil {
			if err == sql.ErrNoRows {
				return ErrOfferNotFound
			}
			return err
		}

		nft, err := lockNFTByID(tx, nftID)
		if err != nil {
			return err
		}

		offer := &models.Offer{}
		query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1 FOR UPDATE`
		if err := tx.Get(offer, query, offerID); err != nil {
			if err == sql.ErrNoRows {
				return ErrOfferNotFound
			}
			return err
		}

		if offer.OwnerID != callerID {
			return ErrNotOwner
		}
		if offer.IsAccepted || offer.IsCancelled {
			return ErrOfferResolved
		}
		if !offer.ExpiresAt.After(time.Now().UTC()) {
			return ErrOfferExpired
		}

		if nft.OwnerID != callerID {
			return ErrNotOwner
		}

		users, err := lockUsers(tx, offer.BuyerID, nft.OwnerID)
		if err != nil {
			return err
		}

		buyer := users[offer.BuyerID]
		if buyer.Balance.LessThan(offer.Amount) {
			return ErrInsufficientFunds
		}

		if err := debitBalance(tx, offer.BuyerID, offer.Amount); err != nil {
			return err
		}
		if err := creditBalance(tx, nft.OwnerID, offer.Amount); err != nil {
			return err
		}

		query = `UPDATE nfts SET owner_id = $1, price = $2 WHERE id = $3`
		if _, err := tx.Exec(query, offer.BuyerID, offer.Amount, nft.ID); err != nil {
			return err
		}

		query = `UPDATE offers SET is_accepted = TRUE WHERE id = $1`
		if _, err := tx.Exec(query, offer.ID); err != nil {
			return err
		}

		// The only multi-row side effect in the system: sibling offers on
		// the NFT are cancelled in the same transaction
		query = `UPDATE offers SET is_cancelled = TRUE
				WHERE nft_id = $1 AND id != $2 AND is_accepted = FALSE AND is_cancelled = FALSE`
		if _, err := tx.Exec(query, offer.NFTID, offer.ID); err != nil {
			return err
		}

		result = &SaleResult{
			TokenID:  nft.TokenID,
			NFTName:  nft.Name,
			BuyerID:  offer.BuyerID,
			SellerID: nft.OwnerID,
			Price:    offer.Amount,
			Royalty:  decimal.Zero,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
