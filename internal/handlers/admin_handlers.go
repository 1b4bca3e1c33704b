package handlers

import (
	"net/http"

	"github.com/mintora/mintora-api/internal/services"
)

// AdminListUsers handles listing all users for moderation
func AdminListUsers(adminService *services.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := adminService.Users(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}

// AdminListNFTs handles listing all NFTs, blocked included
func AdminListNFTs(adminService *services.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nfts, err := adminService.NFTs(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nfts)
	}
}

// AdminListCollections handles listing all collections
func AdminListCollections(adminService *services.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections, err := adminService.Collections(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, collections)
	}
}

// AdminListOffers handles listing all offers regardless of state
func AdminListOffers(adminService *services.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offers, err := adminService.Offers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, offers)
	}
}

// AdminBlockUser handles blocking a user account
func AdminBlockUser(adminService *services.AdminService) http.HandlerFunc {
	return adminUserBlockHandler(adminService, true, "user blocked")
}

// AdminUnblockUser handles unblocking a user account
func AdminUnblockUser(adminService *services.AdminService) http.HandlerFunc {
	return adminUserBlockHandler(adminService, false, "user unblocked")
}

func adminUserBlockHandler(adminService *services.AdminService, blocked bool, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, _ := UserIDFromContext(r.Context())

		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid user id")
			return
		}

		if err := adminService.SetUserBlocked(r.Context(), adminID, userID, blocked); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

// AdminBlockNFT handles hiding an NFT from the market
func AdminBlockNFT(adminService *services.AdminService) http.HandlerFunc {
	return adminNFTBlockHandler(adminService, true, "nft blocked")
}

// AdminUnblockNFT handles restoring a hidden NFT
func AdminUnblockNFT(adminService *services.AdminService) http.HandlerFunc {
	return adminNFTBlockHandler(adminService, false, "nft unblocked")
}

func adminNFTBlockHandler(adminService *services.AdminService, blocked bool, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, _ := UserIDFromContext(r.Context())

		nftID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid nft id")
			return
		}

		if err := adminService.SetNFTBlocked(r.Context(), adminID, nftID, blocked); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

// AdminCancelOffer handles cancelling any offer
func AdminCancelOffer(marketService *services.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID, ok := parseIDParam(r, "id")
		if !ok {
			writeBadRequest(w, "invalid offer id")
			return
		}

		if err := marketService.CancelOffer(r.Context(), offerID); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "offer cancelled"})
	}
}

// AdminEngagement handles the likes and views analytics dump
func AdminEngagement(adminService *services.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := adminService.Engagement(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
