package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/services"
)

// CreateNFT handles minting a new NFT
func CreateNFT(nftService *services.NFTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())

		var req models.CreateNFTRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		nft, err := nftService.Create(r.Context(), req, userID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, nft)
	}
}

// GetNFT handles retrieving a single NFT by token ID. Authenticated
// viewers get a view recorded.
func GetNFT(nftService *services.NFTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenID := chi.URLParam(r, "tokenID")
		if tokenID == "" {
			writeBadRequest(w, "token id is required")
			return
		}

		viewerID, _ := UserIDFromContext(r.Context())

		nft, err := nftService.Get(r.Context(), tokenID, viewerID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nft)
	}
}

// ListNFT handles putting an NFT up for sale
func ListNFT(nftService *services.NFTService) http.HandlerFunc {
	return setListedHandler(nftService, true, "nft listed")
}

// UnlistNFT handles taking an NFT off the market
func UnlistNFT(nftService *services.NFTService) http.HandlerFunc {
	return setListedHandler(nftService, false, "nft unlisted")
}

func setListedHandler(nftService *services.NFTService, listed bool, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())

		tokenID := chi.URLParam(r, "tokenID")
		if tokenID == "" {
			writeBadRequest(w, "token id is required")
			return
		}

		if err := nftService.SetListed(r.Context(), tokenID, userID, listed); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

// ToggleLike handles liking or unliking an NFT
func ToggleLike(nftService *services.NFTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())

		tokenID := chi.URLParam(r, "tokenID")
		if tokenID == "" {
			writeBadRequest(w, "token id is required")
			return
		}

		liked, err := nftService.ToggleLike(r.Context(), tokenID, userID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
	}
}

// FilterNFTs handles the marketplace browse page
func FilterNFTs(nftService *services.NFTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NFTFilterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		nfts, err := nftService.Filter(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.NFTListResponse{Status: "success", NFTs: nfts})
	}
}

// GetCategories handles listing NFT categories
func GetCategories(nftService *services.NFTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := nftService.Categories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, categories)
	}
}

// TopNFTsByCategory handles the landing page category highlights
func TopNFTsByCategory(nftService *services.NFTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid category id")
			return
		}

		nfts, err := nftService.TopByCategory(r.Context(), categoryID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.NFTListResponse{Status: "success", NFTs: nfts})
	}
}

// NFTPriceInFiat handles converting an NFT price into fiat
func NFTPriceInFiat(ratesService *services.RatesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nftID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid nft id")
			return
		}

		currency := r.URL.Query().Get("currency")

		price, err := ratesService.NFTPriceIn(r.Context(), nftID, currency)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, price)
	}
}
