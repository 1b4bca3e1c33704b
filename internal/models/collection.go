package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection represents a grouping of NFTs. Its owner receives the royalty
// share on every direct resale of a member NFT.
type Collection struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Royalty     decimal.Decimal `json:"royalty" db:"royalty"` // percent, 0-10
	LogoFile    string          `json:"logo_file" db:"logo_file"`
	FeatureFile string          `json:"featured_file" db:"featured_file"`
	BannerFile  string          `json:"banner_file" db:"banner_file"`
	UserID      int64           `json:"user_id" db:"user_id"`
	CategoryID  int64           `json:"category_id" db:"category_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// CollectionCategory represents a category for collections
type CollectionCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	LogoFile    string    `json:"logo_file" db:"logo_file"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateCollectionRequest represents a collection creation request
type CreateCollectionRequest struct {
	Name        string          `json:"collection_name"`
	Description string          `json:"collection_description"`
	Royalty     decimal.Decimal `json:"royalties"`
	LogoFile    string          `json:"logo_image"`
	FeatureFile string          `json:"featured_image"`
	BannerFile  string          `json:"baner_image"`
	CategoryID  int64           `json:"collection_category_id"`
}

// Tab filter values for CollectionNFTsRequest
const (
	CollectionTabAll      = 1
	CollectionTabListed   = 2
	CollectionTabUnlisted = 3
)

// CollectionNFTsRequest represents the collection page filters
type CollectionNFTsRequest struct {
	CurrentTab int `json:"currentTab"`
	SortBy     int `json:"sortBy"`
}

// CollectionRanking represents a row of the top-collections board
type CollectionRanking struct {
	Collection  Collection      `json:"collection"`
	NFTCount    int             `json:"nft_count"`
	OwnersCount int             `json:"owners_count"`
	Floor       decimal.Decimal `json:"floor"`
	Volume      decimal.Decimal `json:"volume"`
}
