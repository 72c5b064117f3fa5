// Package card implements the card application service.
package card

import (
	"context"
	"fmt"

	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/repository"
)

// CardInput describes the caller-supplied fields of a card.
type CardInput struct {
	Question string
	Answer   string
}

// Service exposes card operations over the repository. Cards are always
// addressed through their deck so the route layer can authorize on the
// deck; a card ID from another deck reads as not found.
type Service struct {
	cards repository.CardRepository
}

// NewService creates a card service.
func NewService(cards repository.CardRepository) *Service {
	return &Service{cards: cards}
}

// ListByDeck retrieves all cards in a deck.
func (s *Service) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	return s.cards.ListByDeck(ctx, deckID)
}

// Add inserts a card into a deck.
func (s *Service) Add(ctx context.Context, deckID int64, input CardInput) (*models.Card, error) {
	card := &models.Card{
		DeckID:   deckID,
		Question: input.Question,
		Answer:   input.Answer,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Update modifies a card in place, verifying it belongs to the deck the
// caller was authorized against.
func (s *Service) Update(ctx context.Context, deckID, cardID int64, input CardInput) (*models.Card, error) {
	card, err := s.getInDeck(ctx, deckID, cardID)
	if err != nil {
		return nil, err
	}

	card.Question = input.Question
	card.Answer = input.Answer

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Delete removes a card, verifying deck membership first.
func (s *Service) Delete(ctx context.Context, deckID, cardID int64) error {
	if _, err := s.getInDeck(ctx, deckID, cardID); err != nil {
		return err
	}
	return s.cards.Delete(ctx, cardID)
}

func (s *Service) getInDeck(ctx context.Context, deckID, cardID int64) (*models.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.DeckID != deckID {
		return nil, fmt.Errorf("card %d not in deck %d: %w", cardID, deckID, repository.ErrNotFound)
	}
	return card, nil
}
