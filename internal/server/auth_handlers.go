package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/middleware"
	"github.com/studydeck/deckapi/internal/services/iam"
)

// IAMService defines the account operations needed by the auth handlers.
type IAMService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
}

// AuthHandlers wires registration, login, and logout endpoints.
type AuthHandlers struct {
	iam         IAMService
	tokens      *auth.TokenManager
	revocations *auth.RevocationList
}

// NewAuthHandlers creates the handler set for account endpoints.
func NewAuthHandlers(iamSvc IAMService, tokens *auth.TokenManager, revocations *auth.RevocationList) *AuthHandlers {
	return &AuthHandlers{iam: iamSvc, tokens: tokens, revocations: revocations}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.iam.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, iam.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.iam.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, iam.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("login failed for %q: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /api/logout. It revokes the exact token that
// authenticated the request; further requests with it read as anonymous.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsForRequest(h.tokens, r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.revocations.Revoke(r.Context(), claims); err != nil {
		log.Printf("revoke token %s: %v", claims.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
