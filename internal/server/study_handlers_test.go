package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
)

type mockStudyService struct {
	bucketFn func(userID, deckID int64) (int, error)
	saveFn   func(userID, deckID int64, score float64, correct int) (*models.StudyRecord, error)
	reportFn func(userID int64) ([]models.StudyReportRow, error)
}

func (m *mockStudyService) ScoreBucket(_ context.Context, userID, deckID int64) (int, error) {
	return m.bucketFn(userID, deckID)
}

func (m *mockStudyService) Save(_ context.Context, userID, deckID int64, score float64, correct int) (*models.StudyRecord, error) {
	return m.saveFn(userID, deckID, score, correct)
}

func (m *mockStudyService) Report(_ context.Context, userID int64) ([]models.StudyReportRow, error) {
	return m.reportFn(userID)
}

func newStudyRouter(t *testing.T, svc StudyService, access AccessDecider, p auth.Principal) chi.Router {
	t.Helper()
	r, err := NewRouter(RouterOptions{
		Study:      svc,
		Access:     access,
		Middleware: []func(http.Handler) http.Handler{principalMiddleware(p)},
	})
	require.NoError(t, err)
	return r
}

func TestStudyHandlers_GetBucket(t *testing.T) {
	svc := &mockStudyService{
		bucketFn: func(userID, deckID int64) (int, error) {
			assert.Equal(t, int64(7), userID)
			assert.Equal(t, int64(42), deckID)
			return 2, nil
		},
	}
	router := newStudyRouter(t, svc, allowAll(), userPrincipal(7, "alice"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deck/42/history/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"score":2}`, rec.Body.String())
}

func TestStudyHandlers_GetBucketDeniedForUnreadableDeck(t *testing.T) {
	svc := &mockStudyService{
		bucketFn: func(int64, int64) (int, error) {
			t.Fatal("service must not be reached when access is denied")
			return 0, nil
		},
	}
	router := newStudyRouter(t, svc, &mockAccess{}, userPrincipal(9, "mallory"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deck/42/history/9", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStudyHandlers_SaveParsesQueryParams(t *testing.T) {
	var gotScore float64
	var gotCorrect int
	svc := &mockStudyService{
		saveFn: func(userID, deckID int64, score float64, correct int) (*models.StudyRecord, error) {
			gotScore, gotCorrect = score, correct
			return &models.StudyRecord{UserID: userID, DeckID: deckID, ScorePercent: score, CorrectAnswers: correct}, nil
		},
	}
	router := newStudyRouter(t, svc, allowAll(), userPrincipal(7, "alice"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/deck/42/history/7?score=87.5&correct=14", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 87.5, gotScore)
	assert.Equal(t, 14, gotCorrect)
}

func TestStudyHandlers_SaveRejectsBadScore(t *testing.T) {
	svc := &mockStudyService{
		saveFn: func(int64, int64, float64, int) (*models.StudyRecord, error) {
			t.Fatal("service must not be reached for an invalid score")
			return nil, nil
		},
	}
	router := newStudyRouter(t, svc, allowAll(), userPrincipal(7, "alice"))

	for _, target := range []string{
		"/api/deck/42/history/7",
		"/api/deck/42/history/7?score=abc",
		"/api/deck/42/history/7?score=101",
		"/api/deck/42/history/7?score=-1",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestStudyHandlers_PutBehavesLikePost(t *testing.T) {
	saves := 0
	svc := &mockStudyService{
		saveFn: func(userID, deckID int64, score float64, correct int) (*models.StudyRecord, error) {
			saves++
			return &models.StudyRecord{UserID: userID, DeckID: deckID, ScorePercent: score}, nil
		},
	}
	router := newStudyRouter(t, svc, allowAll(), userPrincipal(7, "alice"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/deck/42/history/7?score=60", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, saves)
}

func TestStudyHandlers_ReportGuarded(t *testing.T) {
	svc := &mockStudyService{
		reportFn: func(userID int64) ([]models.StudyReportRow, error) {
			return []models.StudyReportRow{{DeckID: 1, DeckName: "Go basics", ScorePercent: 90, CardCount: 10}}, nil
		},
	}
	access := &mockAccess{
		canAccessUserDecks: func(userID int64, p auth.Principal) bool { return p.UserID == userID },
	}

	rec := httptest.NewRecorder()
	newStudyRouter(t, svc, access, userPrincipal(7, "alice")).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deck/report/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.StudyReportRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)

	rec = httptest.NewRecorder()
	newStudyRouter(t, svc, access, userPrincipal(7, "alice")).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deck/report/9", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
