package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/services"
)

// BuyNFT handles a direct purchase at the listed price
func BuyNFT(marketService *services.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, _ := UserIDFromContext(r.Context())

		tokenID := chi.URLParam(r, "tokenID")
		if tokenID == "" {
			writeBadRequest(w, "token id is required")
			return
		}

		sale, err := marketService.Buy(r.Context(), tokenID, buyerID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

// MakeOffer handles placing an offer on an NFT
func MakeOffer(marketService *services.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, _ := UserIDFromContext(r.Context())

		tokenID := chi.URLParam(r, "tokenID")
		if tokenID == "" {
			writeBadRequest(w, "token id is required")
			return
		}

		var req models.CreateOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		offer, err := marketService.MakeOffer(r.Context(), tokenID, buyerID, req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, offer)
	}
}

// AcceptOffer handles the NFT owner accepting an offer
func AcceptOffer(marketService *services.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := UserIDFromContext(r.Context())

		offerID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid offer id")
			return
		}

		sale, err := marketService.AcceptOffer(r.Context(), offerID, callerID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

// RejectOffer handles the NFT owner rejecting an offer
func RejectOffer(marketService *services.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := UserIDFromContext(r.Context())

		offerID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid offer id")
			return
		}

		if err := marketService.RejectOffer(r.Context(), offerID, callerID); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "offer rejected"})
	}
}
