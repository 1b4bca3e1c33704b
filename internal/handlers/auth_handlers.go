package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/services"
)

const refreshCookieName = "refresh_token"

// Register handles new account creation
func Register(authService *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		token, err := authService.Register(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		setRefreshCookie(w, authService, token.RefreshToken)
		writeJSON(w, http.StatusCreated, token)
	}
}

// Login handles credential authentication
func Login(authService *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		token, err := authService.Login(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		setRefreshCookie(w, authService, token.RefreshToken)
		writeJSON(w, http.StatusOK, token)
	}
}

// Refresh rotates the token pair using the refresh cookie
func Refresh(authService *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "refresh token required"})
			return
		}

		token, err := authService.Refresh(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, err)
			return
		}

		setRefreshCookie(w, authService, token.RefreshToken)
		writeJSON(w, http.StatusOK, token)
	}
}

// Logout clears the refresh cookie
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     refreshCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

// The refresh token travels only in an httpOnly cookie, never in the
// response body.
func setRefreshCookie(w http.ResponseWriter, authService *services.AuthService, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   authService.RefreshTokenMaxAge(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
