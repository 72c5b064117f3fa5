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

// BunDeckRepository implements DeckRepository using Bun ORM
type BunDeckRepository struct {
	db *bun.DB
}

// NewBunDeckRepository creates a new Bun-based deck repository
func NewBunDeckRepository(db *bun.DB) *BunDeckRepository {
	return &BunDeckRepository{db: db}
}

// Create inserts a new deck into the database
func (r *BunDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	if err := deck.ValidateForCreate(); err != nil {
		return err
	}
	_, err := r.db.NewInsert().
		Model(deck).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	return nil
}

// GetByID retrieves a deck by its ID
func (r *BunDeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	deck := new(models.Deck)
	err := r.db.NewSelect().
		Model(deck).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("deck %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get deck by ID: %w", err)
	}
	if !deck.Status.Valid() {
		// Store boundary validation: an out-of-range status never reaches
		// the access engine as a readable deck.
		return nil, fmt.Errorf("deck %d has invalid status %d: %w", id, deck.Status, ErrNotFound)
	}
	return deck, nil
}

// Update updates an existing deck
func (r *BunDeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	if !deck.Status.Valid() {
		return fmt.Errorf("deck status outside the allowed range: %d", deck.Status)
	}
	deck.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(deck).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("deck %d: %w", deck.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a deck; cards and study records cascade at the schema level
func (r *BunDeckRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.Deck)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("deck %d: %w", id, ErrNotFound)
	}
	return nil
}

// List retrieves all decks
func (r *BunDeckRepository) List(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.NewSelect().
		Model(&decks).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// ListByOwner retrieves all decks owned by a user
func (r *BunDeckRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.NewSelect().
		Model(&decks).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decks by owner: %w", err)
	}
	return decks, nil
}

// ListByStatus retrieves all decks with the given status
func (r *BunDeckRepository) ListByStatus(ctx context.Context, status models.DeckStatus) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.NewSelect().
		Model(&decks).
		Where("status = ?", status).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decks by status: %w", err)
	}
	return decks, nil
}
