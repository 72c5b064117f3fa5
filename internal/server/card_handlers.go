package server

import (
	"context"
	"net/http"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/services/card"
)

// CardService defines the card operations needed by the HTTP handlers.
type CardService interface {
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	Add(ctx context.Context, deckID int64, input card.CardInput) (*models.Card, error)
	Update(ctx context.Context, deckID, cardID int64, input card.CardInput) (*models.Card, error)
	Delete(ctx context.Context, deckID, cardID int64) error
}

// CardHandlers wires the card REST endpoints. Cards carry no visibility of
// their own: every route authorizes against the deck in the path.
type CardHandlers struct {
	service CardService
	access  AccessDecider
}

// NewCardHandlers creates the handler set for card endpoints.
func NewCardHandlers(service CardService, access AccessDecider) *CardHandlers {
	return &CardHandlers{service: service, access: access}
}

type cardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// List handles GET /api/deck/{deckID}/card.
func (h *CardHandlers) List(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanRead(r.Context(), deckID, p) {
		denyAccess(w, p)
		return
	}

	cards, err := h.service.ListByDeck(r.Context(), deckID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// Add handles POST /api/deck/{deckID}/card. Adding a card mutates the deck,
// so it takes the modify rule, not the read rule.
func (h *CardHandlers) Add(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanModify(r.Context(), deckID, p) {
		denyAccess(w, p)
		return
	}

	var req cardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := h.service.Add(r.Context(), deckID, card.CardInput{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// Update handles PUT /api/deck/{deckID}/card/{cardID}.
func (h *CardHandlers) Update(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return
	}
	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanModify(r.Context(), deckID, p) {
		denyAccess(w, p)
		return
	}

	var req cardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), deckID, cardID, card.CardInput{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/deck/{deckID}/card/{cardID}.
func (h *CardHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return
	}
	cardID, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanDelete(r.Context(), deckID, p) {
		denyAccess(w, p)
		return
	}

	if err := h.service.Delete(r.Context(), deckID, cardID); err != nil {
		writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
