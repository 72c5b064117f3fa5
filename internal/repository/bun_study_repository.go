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

// BunStudyRepository implements StudyRepository using Bun ORM
type BunStudyRepository struct {
	db *bun.DB
}

// NewBunStudyRepository creates a new Bun-based study history repository
func NewBunStudyRepository(db *bun.DB) *BunStudyRepository {
	return &BunStudyRepository{db: db}
}

// Get retrieves the study record for one (user, deck) pair
func (r *BunStudyRepository) Get(ctx context.Context, userID, deckID int64) (*models.StudyRecord, error) {
	record := new(models.StudyRecord)
	err := r.db.NewSelect().
		Model(record).
		Where("user_id = ?", userID).
		Where("deck_id = ?", deckID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("study record for user %d deck %d: %w", userID, deckID, ErrNotFound)
		}
		return nil, fmt.Errorf("get study record: %w", err)
	}
	return record, nil
}

// Create inserts a new study record
func (r *BunStudyRepository) Create(ctx context.Context, record *models.StudyRecord) error {
	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create study record: %w", err)
	}
	return nil
}

// Update updates an existing study record for the record's (user, deck) pair
func (r *BunStudyRepository) Update(ctx context.Context, record *models.StudyRecord) error {
	record.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(record).
		Column("score_percent", "correct_answers", "updated_at").
		Where("user_id = ?", record.UserID).
		Where("deck_id = ?", record.DeckID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update study record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("study record for user %d deck %d: %w", record.UserID, record.DeckID, ErrNotFound)
	}
	return nil
}

// Report returns one row per deck the user has studied, with deck metadata
// and card counts joined in.
func (r *BunStudyRepository) Report(ctx context.Context, userID int64) ([]models.StudyReportRow, error) {
	var rows []models.StudyReportRow
	err := r.db.NewSelect().
		TableExpr("study_records AS sr").
		ColumnExpr("sr.deck_id AS deck_id").
		ColumnExpr("d.name AS deck_name").
		ColumnExpr("sr.score_percent AS score_percent").
		ColumnExpr("sr.correct_answers AS correct_answers").
		ColumnExpr("(SELECT COUNT(*) FROM cards c WHERE c.deck_id = sr.deck_id) AS card_count").
		Join("JOIN decks AS d ON d.id = sr.deck_id").
		Where("sr.user_id = ?", userID).
		OrderExpr("sr.deck_id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("study report: %w", err)
	}
	return rows, nil
}
