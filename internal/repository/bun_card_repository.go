package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/studydeck/deckapi/internal/db/models"
)

// BunCardRepository implements CardRepository using Bun ORM
type BunCardRepository struct {
	db *bun.DB
}

// NewBunCardRepository creates a new Bun-based card repository
func NewBunCardRepository(db *bun.DB) *BunCardRepository {
	return &BunCardRepository{db: db}
}

// Create inserts a new card into the database
func (r *BunCardRepository) Create(ctx context.Context, card *models.Card) error {
	if err := card.ValidateForCreate(); err != nil {
		return err
	}
	_, err := r.db.NewInsert().
		Model(card).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

// GetByID retrieves a card by its ID
func (r *BunCardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("card %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get card by ID: %w", err)
	}
	return card, nil
}

// Update updates an existing card
func (r *BunCardRepository) Update(ctx context.Context, card *models.Card) error {
	card.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(card).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("card %d: %w", card.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a card
func (r *BunCardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.Card)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListByDeck retrieves all cards in a deck
func (r *BunCardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	var cards []models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("deck_id = ?", deckID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cards by deck: %w", err)
	}
	return cards, nil
}
