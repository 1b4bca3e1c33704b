package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/services"
	"github.com/sirupsen/logrus"
)

// Services bundles everything the router needs
type Services struct {
	Auth       *services.AuthService
	User       *services.UserService
	NFT        *services.NFTService
	Market     *services.MarketService
	Collection *services.CollectionService
	Search     *services.SearchService
	Admin      *services.AdminService
	Rates      *services.RatesService
}

// NewRouter builds the full API route tree
func NewRouter(svc Services, hub *Hub, cfg config.AuthConfig, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	loginLimiter := NewRateLimiter(cfg.LoginRatePerMinute)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Handler)
			r.Post("/auth/register", Register(svc.Auth))
			r.Post("/auth/login", Login(svc.Auth))
		})
		r.Post("/auth/refresh", Refresh(svc.Auth))
		r.Post("/auth/logout", Logout())

		// Public marketplace
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuthMiddleware(svc.Auth))
			r.Get("/nfts/{tokenID}", GetNFT(svc.NFT))
		})
		r.Post("/nfts/filter", FilterNFTs(svc.NFT))
		r.Get("/nfts/{id}/price", NFTPriceInFiat(svc.Rates))
		r.Get("/categories", GetCategories(svc.NFT))
		r.Get("/categories/{id}/top", TopNFTsByCategory(svc.NFT))
		r.Get("/collections/top", TopCollections(svc.Collection))
		r.Post("/collections/{id}/nfts", CollectionNFTs(svc.Collection))
		r.Get("/search", SearchMarket(svc.Search))
		r.Get("/users/{id}", GetUser(svc.User))
		r.Post("/users/{id}/nfts", ProfileNFTs(svc.User))
		r.Get("/offers/completed", CompletedOffers(svc.User))

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(svc.Auth))

			r.Put("/users/{id}", UpdateProfile(svc.User))
			r.Post("/users/{id}/funds", AddFunds(svc.User))
			r.Post("/users/{id}/follow", FollowUser(svc.User))
			r.Delete("/users/{id}/follow", UnfollowUser(svc.User))
			r.Get("/profile/offers", ActiveOffers(svc.User))

			r.Post("/nfts", CreateNFT(svc.NFT))
			r.Post("/nfts/{tokenID}/list", ListNFT(svc.NFT))
			r.Post("/nfts/{tokenID}/unlist", UnlistNFT(svc.NFT))
			r.Post("/nfts/{tokenID}/like", ToggleLike(svc.NFT))
			r.Post("/nfts/{tokenID}/buy", BuyNFT(svc.Market))
			r.Post("/nfts/{tokenID}/offers", MakeOffer(svc.Market))

			r.Post("/offers/{id}/accept", AcceptOffer(svc.Market))
			r.Post("/offers/{id}/reject", RejectOffer(svc.Market))

			r.Post("/collections", CreateCollection(svc.Collection))
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(svc.Auth))
			r.Use(AdminMiddleware)

			r.Get("/admin/users", AdminListUsers(svc.Admin))
			r.Get("/admin/nfts", AdminListNFTs(svc.Admin))
			r.Get("/admin/collections", AdminListCollections(svc.Admin))
			r.Get("/admin/offers", AdminListOffers(svc.Admin))
			r.Get("/admin/engagement", AdminEngagement(svc.Admin))
			r.Post("/admin/users/{id}/block", AdminBlockUser(svc.Admin))
			r.Post("/admin/users/{id}/unblock", AdminUnblockUser(svc.Admin))
			r.Post("/admin/nfts/{id}/block", AdminBlockNFT(svc.Admin))
			r.Post("/admin/nfts/{id}/unblock", AdminUnblockNFT(svc.Admin))
			r.Post("/admin/offers/{id}/cancel", AdminCancelOffer(svc.Market))
		})
	})

	r.Get("/ws", ServeWs(hub))

	return r
}

// requestLogger logs each request with its duration and status
func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}
