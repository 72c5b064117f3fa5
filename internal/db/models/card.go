package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Card is a single question/answer pair. A card belongs to exactly one deck
// and inherits that deck's access rules; it has no visibility of its own.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"cardId"`
	DeckID    int64     `bun:"deck_id,notnull" json:"deckId"`
	Question  string    `bun:"question,notnull" json:"question"`
	Answer    string    `bun:"answer,notnull" json:"answer"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// ValidateForCreate verifies the record is well formed before insertion.
func (c *Card) ValidateForCreate() error {
	if c.DeckID <= 0 {
		return errors.New("deck_id is required")
	}
	if c.Question == "" {
		return errors.New("question is required")
	}
	if c.Answer == "" {
		return errors.New("answer is required")
	}
	return nil
}
