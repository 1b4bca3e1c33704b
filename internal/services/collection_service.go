package services

import (
	"context"

	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/shopspring/decimal"
)

// CollectionService handles collection creation and listings
type CollectionService struct {
	collectionRepo *store.CollectionRepository
	nftRepo        *store.NFTRepository

	maxRoyalty decimal.Decimal
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(collectionRepo *store.CollectionRepository, nftRepo *store.NFTRepository, cfg config.MarketConfig) *CollectionService {
	maxRoyalty, err := decimal.NewFromString(cfg.MaxRoyaltyPercent)
	if err != nil || !maxRoyalty.IsPositive() {
		maxRoyalty = decimal.NewFromInt(10)
	}

	return &CollectionService{
		collectionRepo: collectionRepo,
		nftRepo:        nftRepo,
		maxRoyalty:     maxRoyalty,
	}
}

// Create creates a collection owned by the caller. The royalty percentage
// is capped; the collection owner receives that share of every direct
// resale of a member NFT.
func (s *CollectionService) Create(ctx context.Context, req models.CreateCollectionRequest, userID int64) (*models.Collection, error) {
	if req.Name == "" || len(req.Name) > 100 {
		return nil, apperr.Validation("collection name must be between 1 and 100 characters")
	}
	if req.Royalty.IsNegative() || req.Royalty.GreaterThan(s.maxRoyalty) {
		return nil, apperr.Validation("royalty must be between 0 and %s percent", s.maxRoyalty.String())
	}
	if req.LogoFile == "" || req.FeatureFile == "" || req.BannerFile == "" {
		return nil, apperr.Validation("collection images are required")
	}

	exists, err := s.collectionRepo.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !exists {
		return nil, apperr.Validation("collection category doesn't exist")
	}

	collection := &models.Collection{
		Name:        req.Name,
		Description: req.Description,
		Royalty:     req.Royalty,
		LogoFile:    req.LogoFile,
		FeatureFile: req.FeatureFile,
		BannerFile:  req.BannerFile,
		UserID:      userID,
		CategoryID:  req.CategoryID,
	}

	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, apperr.Internal(err)
	}

	return collection, nil
}

// NFTs retrieves a collection's NFTs with tab and sort filters
func (s *CollectionService) NFTs(ctx context.Context, collectionID int64, req models.CollectionNFTsRequest) ([]models.NFT, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if collection == nil {
		return nil, apperr.Validation("collection with that id doesn't exist")
	}

	nfts, err := s.nftRepo.ByCollection(ctx, collectionID, req)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return nfts, nil
}

// Rankings retrieves the top-collections board ordered by traded volume
func (s *CollectionService) Rankings(ctx context.Context) ([]models.CollectionRanking, error) {
	rankings, err := s.collectionRepo.Rankings(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rankings, nil
}
