package services

import (
	"context"
	"strings"

	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
)

const searchResultLimit = 10

// SearchResult groups the matches across all searchable entities
type SearchResult struct {
	NFTs        []models.NFT        `json:"nfts"`
	Collections []models.Collection `json:"collections"`
	Users       []models.User       `json:"users"`
}

// SearchService handles global marketplace search
type SearchService struct {
	nftRepo        *store.NFTRepository
	collectionRepo *store.CollectionRepository
	userRepo       *store.UserRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(nftRepo *store.NFTRepository, collectionRepo *store.CollectionRepository, userRepo *store.UserRepository) *SearchService {
	return &SearchService{
		nftRepo:        nftRepo,
		collectionRepo: collectionRepo,
		userRepo:       userRepo,
	}
}

// Search looks up NFTs, collections and users matching the query. Each
// entity list is capped independently.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, apperr.Validation("search query is required")
	}

	nfts, err := s.nftRepo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	collections, err := s.collectionRepo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	users, err := s.userRepo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &SearchResult{
		NFTs:        nfts,
		Collections: collections,
		Users:       users,
	}, nil
}
