package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/services"
)

// CreateCollection handles creating an NFT collection
func CreateCollection(collectionService *services.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())

		var req models.CreateCollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		collection, err := collectionService.Create(r.Context(), req, userID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, collection)
	}
}

// CollectionNFTs handles the collection page with tab and sort filters
func CollectionNFTs(collectionService *services.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectionID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid collection id")
			return
		}

		var req models.CollectionNFTsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		nfts, err := collectionService.NFTs(r.Context(), collectionID, req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.NFTListResponse{Status: "success", NFTs: nfts})
	}
}

// TopCollections handles the top-collections ranking board
func TopCollections(collectionService *services.CollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rankings, err := collectionService.Rankings(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, rankings)
	}
}

// SearchMarket handles global search across NFTs, collections and users
func SearchMarket(searchService *services.SearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := searchService.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
