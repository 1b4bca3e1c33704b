package services

import (
	"context"
	"time"

	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Event types published to the live activity feed
const (
	EventNFTMinted     = "nft_minted"
	EventNFTSold       = "nft_sold"
	EventOfferMade     = "offer_made"
	EventOfferAccepted = "offer_accepted"
)

// Broadcaster publishes marketplace events to connected clients. The
// websocket hub implements it; a nil broadcaster disables the feed.
type Broadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// MarketService handles settlement: direct purchases and the offer
// lifecycle. Offers are not escrowed; buyer balances are only re-checked
// when an offer is accepted.
type MarketService struct {
	marketRepo *store.MarketRepository
	offerRepo  *store.OfferRepository
	nftRepo    *store.NFTRepository
	userRepo   *store.UserRepository

	maxOfferAmount decimal.Decimal
	broadcaster    Broadcaster
	log            *logrus.Logger
}

// NewMarketService creates a new MarketService
func NewMarketService(
	marketRepo *store.MarketRepository,
	offerRepo *store.OfferRepository,
	nftRepo *store.NFTRepository,
	userRepo *store.UserRepository,
	cfg config.MarketConfig,
	broadcaster Broadcaster,
	log *logrus.Logger,
) *MarketService {
	maxOffer, err := decimal.NewFromString(cfg.MaxOfferAmount)
	if err != nil || !maxOffer.IsPositive() {
		maxOffer = decimal.NewFromInt(1000000)
	}

	return &MarketService{
		marketRepo:     marketRepo,
		offerRepo:      offerRepo,
		nftRepo:        nftRepo,
		userRepo:       userRepo,
		maxOfferAmount: maxOffer,
		broadcaster:    broadcaster,
		log:            log,
	}
}

// Buy settles a direct purchase at the listed price
func (s *MarketService) Buy(ctx context.Context, tokenID string, buyerID int64) (*store.SaleResult, error) {
	result, err := s.marketRepo.BuyNFT(ctx, tokenID, buyerID)
	if err != nil {
		return nil, mapSettlementError(err)
	}

	s.log.WithFields(logrus.Fields{
		"token_id":  result.TokenID,
		"buyer_id":  result.BuyerID,
		"seller_id": result.SellerID,
		"price":     result.Price.String(),
		"royalty":   result.Royalty.String(),
	}).Info("nft sold")

	s.publish(EventNFTSold, result)
	return result, nil
}

// MakeOffer creates a time-bounded offer on an NFT. No funds move at
// creation time.
func (s *MarketService) MakeOffer(ctx context.Context, tokenID string, buyerID int64, req models.CreateOfferRequest) (*models.Offer, error) {
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("offer amount must be greater than zero")
	}
	if req.Amount.GreaterThan(s.maxOfferAmount) {
		return nil, apperr.Validation("offer amount is too large")
	}

	expiry, ok := models.ExpiryDuration(req.ExpiresIn)
	if !ok {
		return nil, apperr.Validation("invalid expiry choice")
	}

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

	owner, err := s.userRepo.GetByID(ctx, nft.OwnerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if owner == nil || owner.IsBlocked {
		return nil, apperr.Forbidden("owner is blocked")
	}

	if buyerID == nft.CreatorID && buyerID == nft.OwnerID {
		return nil, apperr.Validation("cannot make an offer on an owned nft")
	}

	buyer, err := s.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if buyer == nil {
		return nil, apperr.NotFound("user not found")
	}
	if buyer.Balance.LessThan(req.Amount) {
		return nil, apperr.Validation("not enough balance")
	}

	active, err := s.offerRepo.HasActiveOffer(ctx, nft.ID, buyerID, nft.OwnerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if active {
		return nil, apperr.Conflict("you already have an active offer for this nft")
	}

	offer := &models.Offer{
		NFTID:        nft.ID,
		BuyerID:      buyerID,
		OwnerID:      nft.OwnerID,
		Amount:       req.Amount,
		PriceAtOffer: nft.Price,
		ExpiresAt:    time.Now().UTC().Add(expiry),
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, apperr.Internal(err)
	}

	s.publish(EventOfferMade, offer)
	return offer, nil
}

// AcceptOffer settles an offer. The caller must be the current NFT owner.
func (s *MarketService) AcceptOffer(ctx context.Context, offerID, callerID int64) (*store.SaleResult, error) {
	result, err := s.marketRepo.AcceptOffer(ctx, offerID, callerID)
	if err != nil {
		return nil, mapSettlementError(err)
	}

	s.log.WithFields(logrus.Fields{
		"offer_id": offerID,
		"token_id": result.TokenID,
		"buyer_id": result.BuyerID,
		"amount":   result.Price.String(),
	}).Info("offer accepted")

	s.publish(EventOfferAccepted, result)
	return result, nil
}

// RejectOffer cancels an unresolved offer. Owner only, no balance effect.
func (s *MarketService) RejectOffer(ctx context.Context, offerID, callerID int64) error {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if offer == nil {
		return apperr.NotFound("offer not found")
	}
	if offer.OwnerID != callerID {
		return apperr.Forbidden("not authorized to reject this offer")
	}
	if offer.IsAccepted {
		return apperr.Conflict("offer already accepted")
	}
	if offer.IsCancelled {
		return apperr.Conflict("offer already cancelled")
	}

	if err := s.offerRepo.Cancel(ctx, offerID); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// CancelOffer cancels an offer on behalf of an admin
func (s *MarketService) CancelOffer(ctx context.Context, offerID int64) error {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if offer == nil {
		return apperr.NotFound("offer not found")
	}
	if offer.IsAccepted {
		return apperr.Conflict("offer already accepted")
	}
	if offer.IsCancelled {
		return apperr.Conflict("offer already cancelled")
	}

	if err := s.offerRepo.Cancel(ctx, offerID); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

func (s *MarketService) publish(eventType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(eventType, payload)
	}
}

// mapSettlementError translates store sentinels into boundary errors
func mapSettlementError(err error) error {
	switch err {
	case store.ErrNFTNotFound, store.ErrOfferNotFound:
		return apperr.NotFound("%s", err.Error())
	case store.ErrBlocked:
		return apperr.Forbidden("%s", err.Error())
	case store.ErrNotOwner:
		return apperr.Forbidden("%s", err.Error())
	case store.ErrSelfPurchase:
		return apperr.Validation("%s", err.Error())
	case store.ErrOfferResolved, store.ErrOfferExpired, store.ErrInsufficientFunds:
		return apperr.Conflict("%s", err.Error())
	default:
		return apperr.Internal(err)
	}
}
