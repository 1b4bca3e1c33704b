package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFT represents a marketplace token. Ownership lives in owner_id; there is
// exactly one current owner at any time.
type NFT struct {
	ID           int64           `json:"id" db:"id"`
	TokenID      string          `json:"token_id" db:"token_id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	ImageFile    string          `json:"image_file" db:"image_file"`
	Price        decimal.Decimal `json:"price" db:"price"`
	CreatorID    int64           `json:"creator_id" db:"creator_id"`
	OwnerID      int64           `json:"owner_id" db:"owner_id"`
	CategoryID   int64           `json:"category_id" db:"category_id"`
	CollectionID *int64          `json:"collection_id,omitempty" db:"collection_id"`
	IsListed     bool            `json:"is_listed" db:"is_listed"`
	IsBlocked    bool            `json:"is_blocked" db:"is_blocked"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`

	// Populated by list queries, not columns of nfts
	OwnerName  string `json:"owner,omitempty" db:"owner_name"`
	LikesCount int    `json:"total_likes" db:"likes_count"`
	ViewsCount int    `json:"total_views" db:"views_count"`
}

// Category represents an NFT category
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Logo      string    `json:"logo" db:"logo"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Like represents a user's like on an NFT
type Like struct {
	ID        int64     `json:"id" db:"id"`
	NFTID     int64     `json:"nft_id" db:"nft_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TokenID   string    `json:"token_id" db:"token_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// View represents a unique per-user NFT page view
type View struct {
	ID        int64     `json:"id" db:"id"`
	NFTID     int64     `json:"nft_id" db:"nft_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TokenID   string    `json:"token_id" db:"token_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateNFTRequest represents a mint request
type CreateNFTRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageFile    string          `json:"image_url"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id"`
	CollectionID *int64          `json:"collection_id,omitempty"`
}

// Sort orders shared by the NFT listing endpoints
const (
	SortByOffers    = 1
	SortByPriceAsc  = 2
	SortByPriceDesc = 3
	SortByOldest    = 4
	SortByNewest    = 5
	SortByViews     = 6
	SortByLikes     = 7
)

// Listed-state filter inputs for NFTFilterRequest
const (
	ListedFilterListed   = 1
	ListedFilterUnlisted = 2
)

// NFTFilterRequest represents the marketplace browse filters
type NFTFilterRequest struct {
	CategoryInputs []int64          `json:"categoryInputs"`
	IsListedInputs []int            `json:"isListedInputs"`
	SortBy         int              `json:"sortBy"`
	MinValue       decimal.Decimal  `json:"minValue"`
	MaxValue       *decimal.Decimal `json:"maxValue,omitempty"`
	Search         string           `json:"search"`
}

// NFTListResponse represents the response for NFT listings
type NFTListResponse struct {
	Status string `json:"status"`
	NFTs   []NFT  `json:"nfts"`
}

// NFTFiatPrice represents an NFT price converted into a fiat currency
type NFTFiatPrice struct {
	NFTID    int64           `json:"nft_id"`
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
	Rate     decimal.Decimal `json:"rate"`
	Fiat     decimal.Decimal `json:"fiat"`
}
