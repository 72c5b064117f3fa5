package auth

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/repository"
)

const revocationCacheSize = 4096

// RevocationList tracks revoked JWT IDs. Revocations are permanent, so
// positive lookups are cached in-process; absence always goes to the store
// so a fresh logout takes effect on the next request.
type RevocationList struct {
	repo  repository.RevokedTokenRepository
	cache *lru.Cache[string, struct{}]
}

// NewRevocationList creates a revocation list over the given repository.
func NewRevocationList(repo repository.RevokedTokenRepository) (*RevocationList, error) {
	cache, err := lru.New[string, struct{}](revocationCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create revocation cache: %w", err)
	}
	return &RevocationList{repo: repo, cache: cache}, nil
}

// Revoke invalidates the token described by the claims.
func (l *RevocationList) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return fmt.Errorf("token has no jti")
	}
	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	err := l.repo.Add(ctx, &models.RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}
	l.cache.Add(claims.ID, struct{}{})
	return nil
}

// IsRevoked reports whether the JWT ID has been revoked. Store errors read
// as revoked so a failing store never authenticates a token.
func (l *RevocationList) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return true
	}
	if _, ok := l.cache.Get(jti); ok {
		return true
	}
	revoked, err := l.repo.IsRevoked(ctx, jti)
	if err != nil {
		return true
	}
	if revoked {
		l.cache.Add(jti, struct{}{})
	}
	return revoked
}
