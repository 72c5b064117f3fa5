package repository

import (
	"context"
	"errors"
	"time"

	"github.com/studydeck/deckapi/internal/db/models"
)

// ErrNotFound indicates a requested record is missing. Callers that make
// authorization decisions must treat it as deny, never as a permissive
// default.
var ErrNotFound = errors.New("record not found")

// DeckRepository exposes persistence operations for decks.
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, id int64) (*models.Deck, error)
	Update(ctx context.Context, deck *models.Deck) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Deck, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Deck, error)
	ListByStatus(ctx context.Context, status models.DeckStatus) ([]models.Deck, error)
}

// CardRepository exposes persistence operations for cards.
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id int64) error
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
}

// UserRepository exposes persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// StudyRepository exposes persistence operations for study history.
type StudyRepository interface {
	Get(ctx context.Context, userID, deckID int64) (*models.StudyRecord, error)
	Create(ctx context.Context, record *models.StudyRecord) error
	Update(ctx context.Context, record *models.StudyRecord) error
	Report(ctx context.Context, userID int64) ([]models.StudyReportRow, error)
}

// RevokedTokenRepository exposes persistence operations for revoked JWT IDs.
type RevokedTokenRepository interface {
	Add(ctx context.Context, token *models.RevokedToken) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) error
}
