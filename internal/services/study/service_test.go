package study

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/repository"
)

type key struct{ userID, deckID int64 }

type mockStudyRepo struct {
	records map[key]*models.StudyRecord
}

func newMockStudyRepo() *mockStudyRepo {
	return &mockStudyRepo{records: make(map[key]*models.StudyRecord)}
}

func (m *mockStudyRepo) Get(_ context.Context, userID, deckID int64) (*models.StudyRecord, error) {
	if r, ok := m.records[key{userID, deckID}]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockStudyRepo) Create(_ context.Context, record *models.StudyRecord) error {
	m.records[key{record.UserID, record.DeckID}] = record
	return nil
}

func (m *mockStudyRepo) Update(_ context.Context, record *models.StudyRecord) error {
	if _, ok := m.records[key{record.UserID, record.DeckID}]; !ok {
		return repository.ErrNotFound
	}
	m.records[key{record.UserID, record.DeckID}] = record
	return nil
}

func (m *mockStudyRepo) Report(_ context.Context, userID int64) ([]models.StudyReportRow, error) {
	var rows []models.StudyReportRow
	for k, r := range m.records {
		if k.userID == userID {
			rows = append(rows, models.StudyReportRow{
				DeckID:         r.DeckID,
				ScorePercent:   r.ScorePercent,
				CorrectAnswers: r.CorrectAnswers,
			})
		}
	}
	return rows, nil
}

func TestService_ScoreBucket(t *testing.T) {
	svc := NewService(newMockStudyRepo())
	ctx := context.Background()

	bucket, err := svc.ScoreBucket(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, bucket, "no history reads as 0")

	tests := []struct {
		score float64
		want  int
	}{
		{0, 1},
		{59.9, 1},
		{60, 2},
		{84.9, 2},
		{85, 3},
		{100, 3},
	}
	for _, tt := range tests {
		_, err := svc.Save(ctx, 7, 1, tt.score, 0)
		require.NoError(t, err)

		bucket, err := svc.ScoreBucket(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, tt.want, bucket, "score %.1f", tt.score)
	}
}

func TestService_SaveUpserts(t *testing.T) {
	repo := newMockStudyRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Save(ctx, 7, 1, 50, 5)
	require.NoError(t, err)
	assert.Equal(t, 50.0, first.ScorePercent)

	second, err := svc.Save(ctx, 7, 1, 90, 9)
	require.NoError(t, err)
	assert.Equal(t, 90.0, second.ScorePercent)
	assert.Equal(t, 9, second.CorrectAnswers)
	assert.Len(t, repo.records, 1, "save must update in place, not duplicate")
}
