package services

import (
	"context"
	"strings"
	"time"

	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/sirupsen/logrus"
)

// UserService handles profiles, funds, follows and offer listings
type UserService struct {
	userRepo  *store.UserRepository
	nftRepo   *store.NFTRepository
	offerRepo *store.OfferRepository

	log *logrus.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *store.UserRepository, nftRepo *store.NFTRepository, offerRepo *store.OfferRepository, log *logrus.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		nftRepo:   nftRepo,
		offerRepo: offerRepo,
		log:       log,
	}
}

// Get retrieves a public profile. Blocked profiles are hidden.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("no such user")
	}
	if user.IsBlocked {
		return nil, apperr.Forbidden("user is blocked")
	}

	return user, nil
}

// UpdateProfile updates the caller's display name, email and bio
func (s *UserService) UpdateProfile(ctx context.Context, callerID, userID int64, req models.ProfileUpdateRequest) error {
	if callerID != userID {
		return apperr.Unauthorized("cannot update another user's profile")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil {
		return apperr.NotFound("no such user")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.DisplayName == "" {
		return apperr.Validation("display name and email are required")
	}

	inUse, err := s.userRepo.EmailInUse(ctx, email, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if inUse {
		return apperr.Conflict("email already in use")
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, req.DisplayName, email, req.Bio); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// AddFunds tops up the caller's balance
func (s *UserService) AddFunds(ctx context.Context, callerID, userID int64, req models.AddFundsRequest) error {
	if callerID != userID {
		return apperr.Unauthorized("cannot add funds to another user's account")
	}
	if !req.Amount.IsPositive() {
		return apperr.Validation("invalid amount")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil {
		return apperr.NotFound("no such user")
	}

	if err := s.userRepo.AddFunds(ctx, userID, req.Amount); err != nil {
		return apperr.Internal(err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  req.Amount.String(),
	}).Info("funds added")

	return nil
}

// Follow makes the caller follow another user
func (s *UserService) Follow(ctx context.Context, callerID, userID int64) error {
	if callerID == userID {
		return apperr.Validation("cannot follow yourself")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil {
		return apperr.NotFound("no such user")
	}
	if user.IsBlocked {
		return apperr.Forbidden("user is blocked")
	}

	if err := s.userRepo.Follow(ctx, callerID, userID); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// Unfollow makes the caller unfollow another user
func (s *UserService) Unfollow(ctx context.Context, callerID, userID int64) error {
	if callerID == userID {
		return apperr.Validation("cannot unfollow yourself")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if user == nil {
		return apperr.NotFound("no such user")
	}

	if err := s.userRepo.Unfollow(ctx, callerID, userID); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// ProfileNFTs retrieves NFTs for a profile tab
func (s *UserService) ProfileNFTs(ctx context.Context, userID int64, req models.ProfileFilterRequest) ([]models.NFT, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("no such user")
	}

	nfts, err := s.nftRepo.ByProfile(ctx, userID, req)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return nfts, nil
}

// ActiveOffers retrieves the caller's received offers that can still be
// accepted, fully expanded for display
func (s *UserService) ActiveOffers(ctx context.Context, ownerID int64) ([]models.OfferInfo, error) {
	offers, err := s.offerRepo.ByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return s.expandOffers(ctx, offers, true)
}

// CompletedOffers retrieves accepted offers, newest first
func (s *UserService) CompletedOffers(ctx context.Context) ([]models.OfferInfo, error) {
	offers, err := s.offerRepo.Completed(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return s.expandOffers(ctx, offers, false)
}

// expandOffers joins each offer with its NFT and buyer summaries
func (s *UserService) expandOffers(ctx context.Context, offers []models.Offer, activeOnly bool) ([]models.OfferInfo, error) {
	now := time.Now().UTC()
	infos := []models.OfferInfo{}

	for i := range offers {
		offer := &offers[i]
		if activeOnly && !offer.IsActive(now) {
			continue
		}

		nft, err := s.nftRepo.GetByID(ctx, offer.NFTID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		buyer, err := s.userRepo.GetByID(ctx, offer.BuyerID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if nft == nil || buyer == nil {
			continue
		}

		infos = append(infos, offer.Info(nft, buyer))
	}

	return infos, nil
}
