package users

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/config"
	"github.com/studydeck/deckapi/internal/db/bunx"
	"github.com/studydeck/deckapi/internal/repository"
	"github.com/studydeck/deckapi/internal/services/iam"
)

var (
	usernameFlag string
	passwordFlag string
	roleFlag     string
	stdinFlag    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if usernameFlag == "" {
			return fmt.Errorf("--username flag is required")
		}

		password := passwordFlag
		if stdinFlag {
			// Read password from stdin
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		// Account creation never issues tokens, so the secret may be unset
		// when bootstrapping before the server has its full environment.
		var tokens *auth.TokenManager
		if cfg.JWTSecret != "" {
			tokens, err = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
			if err != nil {
				return fmt.Errorf("configure token manager: %w", err)
			}
		}

		userRepo := repository.NewBunUserRepository(db)
		iamService := iam.NewService(userRepo, tokens, cfg.BcryptCost)

		ctx := context.Background()
		user, err := iamService.CreateUser(ctx, usernameFlag, password, roleFlag)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Println("User created successfully!")
		fmt.Println("----------------------------------------")
		fmt.Printf("User ID: %d\n", user.ID)
		fmt.Printf("Username: %s\n", user.Username)
		fmt.Printf("Role: %s\n", user.Role)
		fmt.Println("----------------------------------------")

		return nil
	},
}
