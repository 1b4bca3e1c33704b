package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/services"
)

// GetUser handles retrieving a user's public profile
func GetUser(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid user id")
			return
		}

		user, err := userService.Get(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// UpdateProfile handles profile edits by the profile owner
func UpdateProfile(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := UserIDFromContext(r.Context())

		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid user id")
			return
		}

		var req models.ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		if err := userService.UpdateProfile(r.Context(), callerID, userID, req); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
	}
}

// AddFunds handles balance top-ups on the caller's own account
func AddFunds(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := UserIDFromContext(r.Context())

		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid user id")
			return
		}

		var req models.AddFundsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		if err := userService.AddFunds(r.Context(), callerID, userID, req); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "funds added"})
	}
}

// FollowUser handles following another user
func FollowUser(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := UserIDFromContext(r.Context())

		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid user id")
			return
		}

		if err := userService.Follow(r.Context(), callerID, userID); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "followed"})
	}
}

// UnfollowUser handles unfollowing another user
func UnfollowUser(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := UserIDFromContext(r.Context())

		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid user id")
			return
		}

		if err := userService.Unfollow(r.Context(), callerID, userID); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "unfollowed"})
	}
}

// ProfileNFTs handles the profile page tabs (owned, created, liked)
func ProfileNFTs(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid user id")
			return
		}

		var req models.ProfileFilterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		nfts, err := userService.ProfileNFTs(r.Context(), userID, req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.NFTListResponse{Status: "success", NFTs: nfts})
	}
}

// ActiveOffers handles listing the caller's incoming active offers
func ActiveOffers(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := UserIDFromContext(r.Context())

		offers, err := userService.ActiveOffers(r.Context(), callerID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, offers)
	}
}

// CompletedOffers handles listing accepted offers as trade history
func CompletedOffers(userService *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offers, err := userService.CompletedOffers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, offers)
	}
}

// Helper to parse a numeric URL parameter
func parseIDParam(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
