package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/services/iam"
)

type mockIAMService struct {
	registerFn func(username, password string) (*models.User, error)
	loginFn    func(username, password string) (string, *models.User, error)
}

func (m *mockIAMService) Register(_ context.Context, username, password string) (*models.User, error) {
	return m.registerFn(username, password)
}

func (m *mockIAMService) Login(_ context.Context, username, password string) (string, *models.User, error) {
	return m.loginFn(username, password)
}

type memRevokedTokenRepo struct {
	revoked map[string]bool
}

func (m *memRevokedTokenRepo) Add(_ context.Context, token *models.RevokedToken) error {
	m.revoked[token.JTI] = true
	return nil
}

func (m *memRevokedTokenRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func (m *memRevokedTokenRepo) DeleteExpired(_ context.Context, _ time.Time) error {
	return nil
}

func newAuthRouter(t *testing.T, svc IAMService) (chi.Router, *auth.TokenManager, *memRevokedTokenRepo) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", "deckapi", time.Hour)
	require.NoError(t, err)
	repo := &memRevokedTokenRepo{revoked: make(map[string]bool)}
	revocations, err := auth.NewRevocationList(repo)
	require.NoError(t, err)

	r, err := NewRouter(RouterOptions{
		IAM:         svc,
		Tokens:      tokens,
		Revocations: revocations,
	})
	require.NoError(t, err)
	return r, tokens, repo
}

func TestAuthHandlers_Register(t *testing.T) {
	svc := &mockIAMService{
		registerFn: func(username, _ string) (*models.User, error) {
			return &models.User{ID: 1, Username: username, Role: models.RoleUser, PasswordHash: "secret"}, nil
		},
	}
	router, _, _ := newAuthRouter(t, svc)

	body := bytes.NewBufferString(`{"username":"alice","password":"long-enough-password"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/register", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret", "password hash must never leave the server")

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestAuthHandlers_RegisterConflict(t *testing.T) {
	svc := &mockIAMService{
		registerFn: func(string, string) (*models.User, error) {
			return nil, iam.ErrUsernameTaken
		},
	}
	router, _, _ := newAuthRouter(t, svc)

	body := bytes.NewBufferString(`{"username":"alice","password":"long-enough-password"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/register", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandlers_RegisterBadBody(t *testing.T) {
	router, _, _ := newAuthRouter(t, &mockIAMService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString("not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlers_Login(t *testing.T) {
	svc := &mockIAMService{
		loginFn: func(username, _ string) (string, *models.User, error) {
			return "signed-token", &models.User{ID: 1, Username: username, Role: models.RoleUser}, nil
		},
	}
	router, _, _ := newAuthRouter(t, svc)

	body := bytes.NewBufferString(`{"username":"alice","password":"long-enough-password"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var got loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "signed-token", got.Token)
	assert.Equal(t, "alice", got.User.Username)
}

func TestAuthHandlers_LoginInvalidCredentials(t *testing.T) {
	svc := &mockIAMService{
		loginFn: func(string, string) (string, *models.User, error) {
			return "", nil, iam.ErrInvalidCredentials
		},
	}
	router, _, _ := newAuthRouter(t, svc)

	body := bytes.NewBufferString(`{"username":"alice","password":"wrong"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlers_LogoutRevokesToken(t *testing.T) {
	router, tokens, repo := newAuthRouter(t, &mockIAMService{})

	token, claims, err := tokens.Issue(&models.User{ID: 1, Username: "alice", Role: models.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, repo.revoked[claims.ID])
}

func TestAuthHandlers_LogoutWithoutTokenIs401(t *testing.T) {
	router, _, _ := newAuthRouter(t, &mockIAMService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
