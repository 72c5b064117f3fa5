package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/repository"
)

// AuthnDependencies bundles collaborators required by the authentication
// middleware.
type AuthnDependencies struct {
	Tokens      *auth.TokenManager
	Revocations *auth.RevocationList
	Users       repository.UserRepository
}

// NewAuthnMiddleware resolves the bearer token, if any, into a request
// principal. Requests without a credential, or with one that fails any
// check, continue as anonymous; turning that into a 401 or 403 is the
// route layer's call, made per endpoint. The middleware itself never
// rejects a request.
func NewAuthnMiddleware(deps AuthnDependencies) (func(http.Handler) http.Handler, error) {
	if deps.Tokens == nil {
		return nil, errors.New("authn middleware requires a token manager")
	}
	if deps.Revocations == nil {
		return nil, errors.New("authn middleware requires a revocation list")
	}
	if deps.Users == nil {
		return nil, errors.New("authn middleware requires a user repository")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := deps.Tokens.Parse(token)
			if err != nil {
				// Malformed or expired credential reads as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			if deps.Revocations.IsRevoked(ctx, claims.ID) {
				next.ServeHTTP(w, r)
				return
			}

			// The account behind the token must still exist and be active.
			user, err := deps.Users.GetByUsername(ctx, claims.Subject)
			if err != nil || user.DisabledAt != nil {
				next.ServeHTTP(w, r)
				return
			}

			principal := auth.Principal{
				UserID:  user.ID,
				Subject: user.Username,
				Role:    auth.RoleFromString(user.Role),
			}
			next.ServeHTTP(w, r.WithContext(auth.SetPrincipalContext(ctx, principal)))
		})
	}, nil
}

// ClaimsForRequest re-parses the request's bearer token. Used by logout to
// revoke the exact token that authenticated the request.
func ClaimsForRequest(tokens *auth.TokenManager, r *http.Request) (*auth.Claims, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return tokens.Parse(token)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
