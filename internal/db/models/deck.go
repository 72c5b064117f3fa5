package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// DeckStatus is the closed visibility classification for a deck.
// Values outside the enum must be treated as invalid at the store boundary.
type DeckStatus int

const (
	// StatusPrivate decks are visible only to their owner and admins.
	StatusPrivate DeckStatus = 1

	// StatusPending decks sit in the moderation queue but remain
	// world-readable while pending. Deliberate policy, not a bug.
	StatusPending DeckStatus = 2

	// StatusPublic decks are world-readable.
	StatusPublic DeckStatus = 3

	// StatusUnlisted decks are hidden from listings and readable only by
	// their owner and admins.
	StatusUnlisted DeckStatus = 4
)

// Valid reports whether the status is inside the closed enum.
func (s DeckStatus) Valid() bool {
	return s >= StatusPrivate && s <= StatusUnlisted
}

// String returns the canonical name for the status.
func (s DeckStatus) String() string {
	switch s {
	case StatusPrivate:
		return "PRIVATE"
	case StatusPending:
		return "PENDING"
	case StatusPublic:
		return "PUBLIC"
	case StatusUnlisted:
		return "UNLISTED"
	default:
		return "INVALID"
	}
}

// Deck represents a user-owned collection of flashcards.
type Deck struct {
	bun.BaseModel `bun:"table:decks,alias:d"`

	ID          int64      `bun:"id,pk,autoincrement" json:"deckId"`
	Name        string     `bun:"name,notnull" json:"deckName"`
	Description string     `bun:"description" json:"deckDesc"`
	Genre       string     `bun:"genre" json:"genre"`
	OwnerID     int64      `bun:"owner_id,notnull" json:"ownerId"`
	Status      DeckStatus `bun:"status,notnull" json:"status"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// ValidateForCreate verifies the record is well formed before insertion.
func (d *Deck) ValidateForCreate() error {
	if d.Name == "" {
		return errors.New("deck name is required")
	}
	if len(d.Name) > 128 {
		return errors.New("deck name exceeds maximum length")
	}
	if d.OwnerID <= 0 {
		return errors.New("owner_id is required")
	}
	if !d.Status.Valid() {
		return errors.New("status outside the allowed range")
	}
	return nil
}
