// Package study implements score history and study reports.
package study

import (
	"context"
	"errors"

	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/repository"
)

// Service exposes study history operations over the repository.
type Service struct {
	records repository.StudyRepository
}

// NewService creates a study service.
func NewService(records repository.StudyRepository) *Service {
	return &Service{records: records}
}

// ScoreBucket returns the coarse history bucket for a (user, deck) pair:
// 0 when no history exists, otherwise 1-3 from the last score.
func (s *Service) ScoreBucket(ctx context.Context, userID, deckID int64) (int, error) {
	record, err := s.records.Get(ctx, userID, deckID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.ScoreBucket(), nil
}

// Save upserts the study record for a (user, deck) pair. Both the create
// and update endpoints funnel here; the original client calls them
// interchangeably.
func (s *Service) Save(ctx context.Context, userID, deckID int64, scorePercent float64, correctAnswers int) (*models.StudyRecord, error) {
	record, err := s.records.Get(ctx, userID, deckID)
	switch {
	case err == nil:
		record.ScorePercent = scorePercent
		record.CorrectAnswers = correctAnswers
		if err := s.records.Update(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	case errors.Is(err, repository.ErrNotFound):
		record = &models.StudyRecord{
			UserID:         userID,
			DeckID:         deckID,
			ScorePercent:   scorePercent,
			CorrectAnswers: correctAnswers,
		}
		if err := s.records.Create(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	default:
		return nil, err
	}
}

// Report returns the user's per-deck study report.
func (s *Service) Report(ctx context.Context, userID int64) ([]models.StudyReportRow, error) {
	return s.records.Report(ctx, userID)
}
