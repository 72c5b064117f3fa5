package models

import (
	"time"

	"github.com/uptrace/bun"
)

// StudyRecord captures the latest study result for one (user, deck) pair.
type StudyRecord struct {
	bun.BaseModel `bun:"table:study_records,alias:sr"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID         int64     `bun:"user_id,notnull" json:"userId"`
	DeckID         int64     `bun:"deck_id,notnull" json:"deckId"`
	ScorePercent   float64   `bun:"score_percent,notnull" json:"scorePercent"`
	CorrectAnswers int       `bun:"correct_answers" json:"correctAnswers"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// ScoreBucket collapses the score percentage into the coarse traffic-light
// scale the client renders: 0 no history, 1 below 60%, 2 below 85%, 3 above.
func (r *StudyRecord) ScoreBucket() int {
	if r == nil {
		return 0
	}
	switch {
	case r.ScorePercent < 60:
		return 1
	case r.ScorePercent < 85:
		return 2
	default:
		return 3
	}
}

// StudyReportRow is one line of a user's per-deck study report.
type StudyReportRow struct {
	DeckID         int64   `json:"deckId"`
	DeckName       string  `json:"deckName"`
	ScorePercent   float64 `json:"scorePercent"`
	CorrectAnswers int     `json:"correctAnswers"`
	CardCount      int     `json:"cardCount"`
}
