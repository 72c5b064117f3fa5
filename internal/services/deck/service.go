// Package deck implements the deck application service.
package deck

import (
	"context"
	"fmt"

	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/repository"
)

// CreateDeckInput describes the caller-supplied fields for a new deck.
type CreateDeckInput struct {
	Name        string
	Description string
	Genre       string
	Status      models.DeckStatus
}

// UpdateDeckInput describes the mutable fields of a deck.
type UpdateDeckInput struct {
	Name        string
	Description string
	Genre       string
	Status      models.DeckStatus
}

// Service exposes deck operations over the repository. Authorization is the
// caller's concern; the service assumes the decision was already made.
type Service struct {
	decks repository.DeckRepository
}

// NewService creates a deck service.
func NewService(decks repository.DeckRepository) *Service {
	return &Service{decks: decks}
}

// Create inserts a deck owned by ownerID. A zero status defaults to
// private so a new deck never leaks by omission.
func (s *Service) Create(ctx context.Context, ownerID int64, input CreateDeckInput) (*models.Deck, error) {
	status := input.Status
	if status == 0 {
		status = models.StatusPrivate
	}
	deck := &models.Deck{
		Name:        input.Name,
		Description: input.Description,
		Genre:       input.Genre,
		OwnerID:     ownerID,
		Status:      status,
	}
	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

// Get retrieves one deck.
func (s *Service) Get(ctx context.Context, id int64) (*models.Deck, error) {
	return s.decks.GetByID(ctx, id)
}

// Update applies the mutable fields to an existing deck. Ownership never
// changes through this path.
func (s *Service) Update(ctx context.Context, id int64, input UpdateDeckInput) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !input.Status.Valid() {
		return nil, fmt.Errorf("deck status outside the allowed range: %d", input.Status)
	}

	deck.Name = input.Name
	deck.Description = input.Description
	deck.Genre = input.Genre
	deck.Status = input.Status

	if err := s.decks.Update(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

// Delete removes a deck and, via schema cascades, its cards and history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.decks.Delete(ctx, id)
}

// ListAll retrieves every deck. Admin-only at the route layer.
func (s *Service) ListAll(ctx context.Context) ([]models.Deck, error) {
	return s.decks.List(ctx)
}

// ListByOwner retrieves all decks owned by a user.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]models.Deck, error) {
	return s.decks.ListByOwner(ctx, ownerID)
}

// ListPublic retrieves the world-readable deck catalog.
func (s *Service) ListPublic(ctx context.Context) ([]models.Deck, error) {
	return s.decks.ListByStatus(ctx, models.StatusPublic)
}
