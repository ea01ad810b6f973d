package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilingual-blog-api/internal/api"
	"github.com/bilingual-blog-api/internal/auth"
	"github.com/bilingual-blog-api/internal/config"
	"github.com/bilingual-blog-api/internal/content"
	"github.com/bilingual-blog-api/internal/gitstore"
	"github.com/bilingual-blog-api/internal/repository"
	"github.com/bilingual-blog-api/internal/service"
	"github.com/bilingual-blog-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Str("backend", cfg.Store.Backend).Msg("Starting bilingual blog API server...")

	// Initialize file store
	backend := newBackend(&cfg.Store, log)

	// Initialize repositories
	renderer := content.NewRenderer(cfg.Render.CacheSize)
	repos := repository.New(backend, &cfg.Store, renderer, log)

	// Initialize services
	services := service.NewServices(repos, backend, cfg, log)

	// Initialize router
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	router := api.NewRouter(services, tokens, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

func newBackend(cfg *config.StoreConfig, log zerolog.Logger) gitstore.Backend {
	if cfg.Backend == config.BackendMemory {
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return gitstore.NewMemoryBackend()
	}
	return gitstore.NewGitHubBackend(gitstore.GitHubConfig{
		Token:   cfg.Token,
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Branch:  cfg.Branch,
		APIURL:  cfg.APIURL,
		RawURL:  cfg.RawURL,
		Timeout: cfg.RequestTimeout,
	}, log)
}
