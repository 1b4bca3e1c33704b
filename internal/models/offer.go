package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer represents a buyer's time-bounded bid on an NFT at a proposed amount,
// independent of the listed price. Funds are not held at creation; the buyer
// balance is re-checked when the owner accepts.
type Offer struct {
	ID           int64           `json:"id" db:"id"`
	NFTID        int64           `json:"nft_id" db:"nft_id"`
	BuyerID      int64           `json:"buyer_id" db:"buyer_id"`
	OwnerID      int64           `json:"owner_id" db:"owner_id"`
	PriceAtOffer decimal.Decimal `json:"price_at_offer" db:"price_at_offer"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	ExpiresAt    time.Time       `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	IsAccepted   bool            `json:"is_accepted" db:"is_accepted"`
	IsCancelled  bool            `json:"is_cancelled" db:"is_cancelled"`
}

// IsActive reports whether the offer can still be accepted
func (o *Offer) IsActive(now time.Time) bool {
	return !o.IsAccepted && !o.IsCancelled && o.ExpiresAt.After(now)
}

// PercentOfPrice returns the offer amount as a percentage of the listed
// price at offer time, rounded to two decimal places. Display only.
func (o *Offer) PercentOfPrice() decimal.Decimal {
	if o.PriceAtOffer.IsZero() {
		return decimal.Zero
	}
	return o.Amount.Div(o.PriceAtOffer).Mul(decimal.NewFromInt(100)).Round(2)
}

// offerExpiryChoices is the fixed set of offer lifetimes
var offerExpiryChoices = map[string]time.Duration{
	"1h":  time.Hour,
	"6h":  6 * time.Hour,
	"24h": 24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
}

// ExpiryDuration maps an expiry choice to its duration
func ExpiryDuration(choice string) (time.Duration, bool) {
	d, ok := offerExpiryChoices[choice]
	return d, ok
}

// CreateOfferRequest represents a bid on an NFT
type CreateOfferRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	ExpiresIn string          `json:"expires_in"`
}

// OfferInfo is the offer representation returned to clients, with the NFT
// and buyer summaries preloaded
type OfferInfo struct {
	ID           int64           `json:"id"`
	NFT          OfferNFT        `json:"nft"`
	Buyer        OfferBuyer      `json:"buyer"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
	PriceAtOffer decimal.Decimal `json:"price_at_offer"`
	ExpiresAt    time.Time       `json:"expires_in"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OfferNFT is the NFT summary embedded in OfferInfo
type OfferNFT struct {
	ID      int64  `json:"id"`
	TokenID string `json:"token_id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
}

// OfferBuyer is the buyer summary embedded in OfferInfo
type OfferBuyer struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Info builds the client representation of the offer
func (o *Offer) Info(nft *NFT, buyer *User) OfferInfo {
	return OfferInfo{
		ID: o.ID,
		NFT: OfferNFT{
			ID:      nft.ID,
			TokenID: nft.TokenID,
			Name:    nft.Name,
			Image:   nft.ImageFile,
		},
		Buyer: OfferBuyer{
			ID:       buyer.ID,
			Username: buyer.Username,
		},
		Amount:       o.Amount.Round(2),
		Percentage:   o.PercentOfPrice(),
		PriceAtOffer: o.PriceAtOffer,
		ExpiresAt:    o.ExpiresAt,
		CreatedAt:    o.CreatedAt,
	}
}
