package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/sirupsen/logrus"
)

// NFTService handles minting, listing state and browse queries
type NFTService struct {
	nftRepo        *store.NFTRepository
	collectionRepo *store.CollectionRepository
	activityRepo   *store.ActivityRepository

	broadcaster Broadcaster
	log         *logrus.Logger
}

// NewNFTService creates a new NFTService
func NewNFTService(
	nftRepo *store.NFTRepository,
	collectionRepo *store.CollectionRepository,
	activityRepo *store.ActivityRepository,
	broadcaster Broadcaster,
	log *logrus.Logger,
) *NFTService {
	return &NFTService{
		nftRepo:        nftRepo,
		collectionRepo: collectionRepo,
		activityRepo:   activityRepo,
		broadcaster:    broadcaster,
		log:            log,
	}
}

// Create mints a new NFT owned and created by the caller
func (s *NFTService) Create(ctx context.Context, req models.CreateNFTRequest, userID int64) (*models.NFT, error) {
	if len(req.Name) < 5 || len(req.Name) > 100 {
		return nil, apperr.Validation("name must be between 5 and 100 characters")
	}
	if req.Description == "" || len(req.Description) > 1000 {
		return nil, apperr.Validation("description must be between 1 and 1000 characters")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Validation("price must be non-negative")
	}
	if req.ImageFile == "" {
		return nil, apperr.Validation("image reference is required")
	}

	exists, err := s.nftRepo.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !exists {
		return nil, apperr.Validation("category doesn't exist")
	}

	if req.CollectionID != nil {
		collection, err := s.collectionRepo.GetByID(ctx, *req.CollectionID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if collection == nil {
			return nil, apperr.Validation("invalid collection id")
		}
		if collection.UserID != userID {
			return nil, apperr.Forbidden("collection belongs to another user")
		}
	}

	nft := &models.NFT{
		TokenID:      uuid.New().String(),
		Name:         req.Name,
		Description:  req.Description,
		ImageFile:    req.ImageFile,
		Price:        req.Price.Round(2),
		CreatorID:    userID,
		OwnerID:      userID,
		CategoryID:   req.CategoryID,
		CollectionID: req.CollectionID,
	}

	if err := s.nftRepo.Create(ctx, nft); err != nil {
		return nil, apperr.Internal(err)
	}

	s.log.WithFields(logrus.Fields{
		"token_id":   nft.TokenID,
		"creator_id": userID,
	}).Info("nft minted")

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(EventNFTMinted, nft)
	}

	return nft, nil
}

// Get retrieves an NFT by token id, recording a view for the caller when
// authenticated. Blocked NFTs are hidden from non-admins.
func (s *NFTService) Get(ctx context.Context, tokenID string, viewerID int64) (*models.NFT, error) {
	nft, err := s.nftRepo.GetByTokenID(ctx, tokenID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if nft == nil {
		return nil, apperr.NotFound("nft not found")
	}
	if nft.IsBlocked {
		return nil, apperr.Forbidden("nft is blocked")
	}

	if viewerID != 0 {
		view := &models.View{NFTID: nft.ID, UserID: viewerID, TokenID: nft.TokenID}
		if err := s.activityRepo.RecordView(ctx, view); err != nil {
			// A lost view must not fail the read
			s.log.WithError(err).Warn("failed to record view")
		}
	}

	return nft, nil
}

// SetListed lists or unlists an NFT; only the owner or creator may change it
func (s *NFTService) SetListed(ctx context.Context, tokenID string, userID int64, listed bool) error {
	nft, err := s.nftRepo.GetByTokenID(ctx, tokenID)
	if err != nil {
		return apperr.Internal(err)
	}
	if nft == nil {
		return apperr.NotFound("nft not found")
	}
	if nft.IsBlocked {
		return apperr.Forbidden("nft is blocked")
	}
	if userID != nft.OwnerID && userID != nft.CreatorID {
		return apperr.Validation("cannot change listing of an nft you don't own")
	}

	if err := s.nftRepo.SetListed(ctx, nft.ID, listed); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// ToggleLike likes an NFT, or removes the like when already present.
// Returns true when the NFT ends up liked.
func (s *NFTService) ToggleLike(ctx context.Context, tokenID string, userID int64) (bool, error) {
	nft, err := s.nftRepo.GetByTokenID(ctx, tokenID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	if nft == nil {
		return false, apperr.NotFound("nft not found")
	}
	if nft.IsBlocked {
		return false, apperr.Forbidden("nft is blocked")
	}

	existing, err := s.activityRepo.GetLike(ctx, nft.ID, userID)
	if err != nil {
		return false, apperr.Internal(err)
	}

	if existing != nil {
		if err := s.activityRepo.RemoveLike(ctx, nft.ID, userID); err != nil {
			return false, apperr.Internal(err)
		}
		return false, nil
	}

	like := &models.Like{NFTID: nft.ID, UserID: userID, TokenID: nft.TokenID}
	if err := s.activityRepo.AddLike(ctx, like); err != nil {
		return false, apperr.Internal(err)
	}

	return true, nil
}

// Filter retrieves NFTs matching the marketplace browse filters
func (s *NFTService) Filter(ctx context.Context, req models.NFTFilterRequest) ([]models.NFT, error) {
	if req.MinValue.IsNegative() {
		return nil, apperr.Validation("minValue must be a positive number")
	}
	if req.MaxValue != nil && req.MaxValue.IsNegative() {
		return nil, apperr.Validation("maxValue must be a positive number")
	}
	if req.SortBy < models.SortByOffers || req.SortBy > models.SortByLikes {
		return nil, apperr.Validation("sortBy must be one of 1..7")
	}

	nfts, err := s.nftRepo.Filter(ctx, req)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return nfts, nil
}

// Categories retrieves the NFT categories
func (s *NFTService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.nftRepo.Categories(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// TopByCategory retrieves the five most liked NFTs of a category
func (s *NFTService) TopByCategory(ctx context.Context, categoryID int64) ([]models.NFT, error) {
	exists, err := s.nftRepo.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !exists {
		return nil, apperr.Validation("category with that id doesn't exist")
	}

	nfts, err := s.nftRepo.TopByCategory(ctx, categoryID, 5)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return nfts, nil
}
