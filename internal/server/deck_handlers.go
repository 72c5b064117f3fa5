package server

import (
	"context"
	"net/http"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/services/deck"
)

// AccessDecider is the decision surface consulted before every deck-scoped
// route. Implementations return plain booleans; a false answer carries no
// reason and the handlers map it to 401 or 403 based on the principal alone.
type AccessDecider interface {
	CanRead(ctx context.Context, deckID int64, p auth.Principal) bool
	CanModify(ctx context.Context, deckID int64, p auth.Principal) bool
	CanDelete(ctx context.Context, deckID int64, p auth.Principal) bool
	CanCreate(p auth.Principal) bool
	CanAccessUserDecks(ctx context.Context, targetUserID int64, p auth.Principal) bool
}

// DeckService defines the deck operations needed by the HTTP handlers.
type DeckService interface {
	Create(ctx context.Context, ownerID int64, input deck.CreateDeckInput) (*models.Deck, error)
	Get(ctx context.Context, id int64) (*models.Deck, error)
	Update(ctx context.Context, id int64, input deck.UpdateDeckInput) (*models.Deck, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]models.Deck, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Deck, error)
	ListPublic(ctx context.Context) ([]models.Deck, error)
}

// DeckHandlers wires the deck REST endpoints.
type DeckHandlers struct {
	service DeckService
	access  AccessDecider
}

// NewDeckHandlers creates the handler set for deck endpoints.
func NewDeckHandlers(service DeckService, access AccessDecider) *DeckHandlers {
	return &DeckHandlers{service: service, access: access}
}

type deckRequest struct {
	Name        string            `json:"deckName"`
	Description string            `json:"deckDesc"`
	Genre       string            `json:"genre"`
	Status      models.DeckStatus `json:"status"`
}

// Create handles POST /api/deck. The authenticated caller becomes the owner;
// an ownerId in the body is ignored.
func (h *DeckHandlers) Create(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanCreate(p) {
		denyAccess(w, p)
		return
	}

	var req deckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != 0 && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "status outside the allowed range")
		return
	}

	created, err := h.service.Create(r.Context(), p.UserID, deck.CreateDeckInput{
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/deck/{deckID}. A deck the caller may not read is
// indistinguishable from one that does not exist.
func (h *DeckHandlers) Get(w http.ResponseWriter, r *http.Request) {
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

	found, err := h.service.Get(r.Context(), deckID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// Update handles PUT /api/deck/{deckID}.
func (h *DeckHandlers) Update(w http.ResponseWriter, r *http.Request) {
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

	var req deckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "status outside the allowed range")
		return
	}

	updated, err := h.service.Update(r.Context(), deckID, deck.UpdateDeckInput{
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
		Status:      req.Status,
	})
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/deck/{deckID}. Cards and study history go with
// the deck through schema cascades.
func (h *DeckHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deck id")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if !h.access.CanDelete(r.Context(), deckID, p) {
		denyAccess(w, p)
		return
	}

	if err := h.service.Delete(r.Context(), deckID); err != nil {
		writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAll handles GET /api/deck. Admin only.
func (h *DeckHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if !p.IsAuthenticated() || !p.IsAdmin() {
		denyAccess(w, p)
		return
	}

	decks, err := h.service.ListAll(r.Context())
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(decks))
}

// ListPublic handles GET /api/deck/public. Open to anyone, including
// anonymous callers.
func (h *DeckHandlers) ListPublic(w http.ResponseWriter, r *http.Request) {
	decks, err := h.service.ListPublic(r.Context())
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(decks))
}

// ListUserDecks handles GET /api/deck/myDecks/{userID}. Admins may list any
// user's decks; everyone else only their own.
func (h *DeckHandlers) ListUserDecks(w http.ResponseWriter, r *http.Request) {
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

	decks, err := h.service.ListByOwner(r.Context(), userID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(decks))
}

func emptyIfNil(decks []models.Deck) []models.Deck {
	if decks == nil {
		return []models.Deck{}
	}
	return decks
}
