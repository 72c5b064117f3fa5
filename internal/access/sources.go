package access

import (
	"context"

	"github.com/studydeck/deckapi/internal/repository"
)

// RepositoryDeckSource adapts a DeckRepository to the engine's DeckSource.
type RepositoryDeckSource struct {
	decks repository.DeckRepository
}

// NewRepositoryDeckSource wraps a deck repository for engine lookups.
func NewRepositoryDeckSource(decks repository.DeckRepository) *RepositoryDeckSource {
	return &RepositoryDeckSource{decks: decks}
}

// LookupDeck resolves the deck fields the engine decides on. The repository
// already rejects rows with a status outside the closed enum.
func (s *RepositoryDeckSource) LookupDeck(ctx context.Context, deckID int64) (DeckRef, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return DeckRef{}, err
	}
	return DeckRef{ID: deck.ID, OwnerID: deck.OwnerID, Status: deck.Status}, nil
}

// RepositoryUserSource adapts a UserRepository to the engine's UserSource.
type RepositoryUserSource struct {
	users repository.UserRepository
}

// NewRepositoryUserSource wraps a user repository for engine lookups.
func NewRepositoryUserSource(users repository.UserRepository) *RepositoryUserSource {
	return &RepositoryUserSource{users: users}
}

// ResolveUserID maps a login name to its numeric account ID.
func (s *RepositoryUserSource) ResolveUserID(ctx context.Context, subject string) (int64, error) {
	user, err := s.users.GetByUsername(ctx, subject)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}
