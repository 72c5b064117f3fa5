package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
)

// StudyService defines the score history operations needed by the HTTP
// handlers.
type StudyService interface {
	ScoreBucket(ctx context.Context, userID, deckID int64) (int, error)
	Save(ctx context.Context, userID, deckID int64, scorePercent float64, correctAnswers int) (*models.StudyRecord, error)
	Report(ctx context.Context, userID int64) ([]models.StudyReportRow, error)
}

// StudyHandlers wires the study history REST endpoints.
type StudyHandlers struct {
	service StudyService
	access  AccessDecider
}

// NewStudyHandlers creates the handler set for study history endpoints.
func NewStudyHandlers(service StudyService, access AccessDecider) *StudyHandlers {
	return &StudyHandlers{service: service, access: access}
}

type scoreBucketResponse struct {
	Score int `json:"score"`
}

// GetBucket handles GET /api/deck/{deckID}/history/{userID}. It returns the
// coarse 0-3 bucket, never the raw percentage.
func (h *StudyHandlers) GetBucket(w http.ResponseWriter, r *http.Request) {
	deckID, userID, ok := h.historyParams(w, r)
	if !ok {
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanRead(r.Context(), deckID, p) {
		denyAccess(w, p)
		return
	}

	bucket, err := h.service.ScoreBucket(r.Context(), userID, deckID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreBucketResponse{Score: bucket})
}

// Save handles POST and PUT /api/deck/{deckID}/history/{userID}. The two
// verbs behave identically; the record is upserted either way.
func (h *StudyHandlers) Save(w http.ResponseWriter, r *http.Request) {
	deckID, userID, ok := h.historyParams(w, r)
	if !ok {
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanRead(r.Context(), deckID, p) {
		denyAccess(w, p)
		return
	}

	score, err := strconv.ParseFloat(r.URL.Query().Get("score"), 64)
	if err != nil || score < 0 || score > 100 {
		writeError(w, http.StatusBadRequest, "score must be a percentage between 0 and 100")
		return
	}

	correct := 0
	if raw := r.URL.Query().Get("correct"); raw != "" {
		correct, err = strconv.Atoi(raw)
		if err != nil || correct < 0 {
			writeError(w, http.StatusBadRequest, "correct must be a non-negative integer")
			return
		}
	}

	record, err := h.service.Save(r.Context(), userID, deckID, score, correct)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Report handles GET /api/deck/report/{userID}. Guarded like the per-user
// deck listing: admins see anyone's report, users only their own.
func (h *StudyHandlers) Report(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanAccessUserDecks(r.Context(), userID, p) {
		denyAccess(w, p)
		return
	}

	rows, err := h.service.Report(r.Context(), userID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if rows == nil {
		rows = []models.StudyReportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *StudyHandlers) historyParams(w http.ResponseWriter, r *http.Request) (deckID, userID int64, ok bool) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return 0, 0, false
	}
	userID, err = pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, 0, false
	}
	return deckID, userID, true
}
