package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/handlers"
	"github.com/mintora/mintora-api/internal/services"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	db, err := store.NewDatabase(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}
	logger.Info("connected to database")

	userRepo := store.NewUserRepository(db)
	nftRepo := store.NewNFTRepository(db)
	collectionRepo := store.NewCollectionRepository(db)
	offerRepo := store.NewOfferRepository(db)
	activityRepo := store.NewActivityRepository(db)
	marketRepo := store.NewMarketRepository(db)

	hub := handlers.NewHub(logger)
	go hub.Run()

	svc := handlers.Services{
		Auth:       services.NewAuthService(userRepo, cfg.Auth),
		User:       services.NewUserService(userRepo, nftRepo, offerRepo, logger),
		NFT:        services.NewNFTService(nftRepo, collectionRepo, activityRepo, hub, logger),
		Market:     services.NewMarketService(marketRepo, offerRepo, nftRepo, userRepo, cfg.Market, hub, logger),
		Collection: services.NewCollectionService(collectionRepo, nftRepo, cfg.Market),
		Search:     services.NewSearchService(nftRepo, collectionRepo, userRepo),
		Admin:      services.NewAdminService(userRepo, nftRepo, collectionRepo, offerRepo, activityRepo, logger),
		Rates:      services.NewRatesService(nftRepo, cfg.Rates),
	}

	router := handlers.NewRouter(svc, hub, cfg.Auth, logger)

	// No WriteTimeout: the feed endpoint holds connections open.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exited")
}
