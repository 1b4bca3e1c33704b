package services

import (
	"context"

	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/sirupsen/logrus"
)

// AdminService handles moderation and platform analytics
type AdminService struct {
	userRepo       *store.UserRepository
	nftRepo        *store.NFTRepository
	collectionRepo *store.CollectionRepository
	offerRepo      *store.OfferRepository
	activityRepo   *store.ActivityRepository
	logger         *logrus.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo *store.UserRepository,
	nftRepo *store.NFTRepository,
	collectionRepo *store.CollectionRepository,
	offerRepo *store.OfferRepository,
	activityRepo *store.ActivityRepository,
	logger *logrus.Logger,
) *AdminService {
	return &AdminService{
		userRepo:       userRepo,
		nftRepo:        nftRepo,
		collectionRepo: collectionRepo,
		offerRepo:      offerRepo,
		activityRepo:   activityRepo,
		logger:         logger,
	}
}

// Users lists all registered users
func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// NFTs lists all NFTs, blocked ones included
func (s *AdminService) NFTs(ctx context.Context) ([]models.NFT, error) {
	nfts, err := s.nftRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return nfts, nil
}

// Collections lists all collections
func (s *AdminService) Collections(ctx context.Context) ([]models.Collection, error) {
	collections, err := s.collectionRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return collections, nil
}

// Offers lists all offers regardless of state
func (s *AdminService) Offers(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.offerRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return offers, nil
}

// SetUserBlocked toggles a user's blocked flag. Admins cannot block
// themselves.
func (s *AdminService) SetUserBlocked(ctx context.Context, adminID, userID int64, blocked bool) error {
	if adminID == userID {
		return apperr.Validation("you can't block your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil {
		return apperr.NotFound("user with that id doesn't exist")
	}

	if err := s.userRepo.SetBlocked(ctx, userID, blocked); err != nil {
		return apperr.Internal(err)
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id": adminID,
		"user_id":  userID,
		"blocked":  blocked,
	}).Info("user block state changed")

	return nil
}

// SetNFTBlocked toggles an NFT's blocked flag, hiding it from the market
func (s *AdminService) SetNFTBlocked(ctx context.Context, adminID, nftID int64, blocked bool) error {
	nft, err := s.nftRepo.GetByID(ctx, nftID)
	if err != nil {
		return apperr.Internal(err)
	}
	if nft == nil {
		return apperr.NotFound("nft with that id doesn't exist")
	}

	if err := s.nftRepo.SetBlocked(ctx, nftID, blocked); err != nil {
		return apperr.Internal(err)
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id": adminID,
		"nft_id":   nftID,
		"blocked":  blocked,
	}).Info("nft block state changed")

	return nil
}

// EngagementStats aggregates platform-wide like and view activity
type EngagementStats struct {
	Likes []models.Like `json:"likes"`
	Views []models.View `json:"views"`
}

// Engagement retrieves all recorded likes and views for analytics
func (s *AdminService) Engagement(ctx context.Context) (*EngagementStats, error) {
	likes, err := s.activityRepo.Likes(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	views, err := s.activityRepo.Views(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &EngagementStats{Likes: likes, Views: views}, nil
}
