package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"gitgallery/gallery/application"
	"gitgallery/gallery/persistence"
	"gitgallery/internal/middleware"
	"gitgallery/internal/rest"
	"gitgallery/shared/config"
	gh "gitgallery/shared/github"
	webhook "gitgallery/webhook/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v75/github"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ghClient := github.NewClient(nil).WithAuthToken(cfg.GitHub.Token)
	store := gh.NewContentsRepository(ghClient, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch)
	catalog := persistence.NewCatalogRepository(store)
	gallery := application.NewGalleryService(store, catalog, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(router, gallery)
	if cfg.GitHub.WebhookSecret != "" {
		webhook.NewWebhookHandler(cfg.GitHub.WebhookSecret, gallery).RegisterRoutes(router)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("repository", store.RepoFullName()).
			Str("branch", cfg.GitHub.Branch).
			Msg("Starting gallery server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
