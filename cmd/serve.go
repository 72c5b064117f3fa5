package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studydeck/deckapi/internal/access"
	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/bunx"
	deckmiddleware "github.com/studydeck/deckapi/internal/middleware"
	"github.com/studydeck/deckapi/internal/repository"
	"github.com/studydeck/deckapi/internal/server"
	"github.com/studydeck/deckapi/internal/services/card"
	"github.com/studydeck/deckapi/internal/services/deck"
	"github.com/studydeck/deckapi/internal/services/iam"
	"github.com/studydeck/deckapi/internal/services/study"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deck API server",
	Long:  `Starts the HTTP server with the deck, card, study, and account endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET must be set to start the server")
		}

		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		// Initialize repositories
		deckRepo := repository.NewBunDeckRepository(db)
		cardRepo := repository.NewBunCardRepository(db)
		userRepo := repository.NewBunUserRepository(db)
		studyRepo := repository.NewBunStudyRepository(db)
		revokedTokenRepo := repository.NewBunRevokedTokenRepository(db)

		// Auth plumbing
		tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
		if err != nil {
			return fmt.Errorf("configure token manager: %w", err)
		}
		revocations, err := auth.NewRevocationList(revokedTokenRepo)
		if err != nil {
			return fmt.Errorf("configure revocation list: %w", err)
		}

		// Access decisions are re-read from the store on every request.
		engine := access.NewEngine(
			access.NewRepositoryDeckSource(deckRepo),
			access.NewRepositoryUserSource(userRepo),
		)

		// Initialize services
		deckService := deck.NewService(deckRepo)
		cardService := card.NewService(cardRepo)
		studyService := study.NewService(studyRepo)
		iamService := iam.NewService(userRepo, tokens, cfg.BcryptCost)

		routerOpts := server.RouterOptions{
			Decks:       deckService,
			Cards:       cardService,
			Study:       studyService,
			IAM:         iamService,
			Access:      engine,
			Tokens:      tokens,
			Revocations: revocations,
			AuthnDeps: &deckmiddleware.AuthnDependencies{
				Tokens:      tokens,
				Revocations: revocations,
				Users:       userRepo,
			},
		}

		h2cHandler, err := server.NewH2CHandler(routerOpts)
		if err != nil {
			return fmt.Errorf("assemble router: %w", err)
		}

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      h2cHandler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Expired revocation rows are dead weight once the tokens they
		// block can no longer validate; sweep them hourly.
		sweepCtx, cancelSweep := context.WithCancel(cmd.Context())
		defer cancelSweep()
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := revokedTokenRepo.DeleteExpired(sweepCtx, time.Now()); err != nil {
						log.Printf("sweep expired revocations: %v", err)
					}
				case <-sweepCtx.Done():
					return
				}
			}
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
