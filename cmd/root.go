package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studydeck/deckapi/cmd/users"
	"github.com/studydeck/deckapi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "deckapi",
	Short: "Flashcard deck API server",
	Long: `Deck API serves a flashcard study backend: user accounts, decks with
visibility rules, cards, and per-user study history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
