package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/studydeck/deckapi/internal/db/models"
)

// BunRevokedTokenRepository implements RevokedTokenRepository using Bun ORM
type BunRevokedTokenRepository struct {
	db *bun.DB
}

// NewBunRevokedTokenRepository creates a new Bun-based revoked token repository
func NewBunRevokedTokenRepository(db *bun.DB) *BunRevokedTokenRepository {
	return &BunRevokedTokenRepository{db: db}
}

// Add records a revoked JWT ID. Adding the same jti twice is a no-op.
func (r *BunRevokedTokenRepository) Add(ctx context.Context, token *models.RevokedToken) error {
	if token.RevokedAt.IsZero() {
		token.RevokedAt = time.Now()
	}
	_, err := r.db.NewInsert().
		Model(token).
		On("CONFLICT (jti) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("add revoked token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the JWT ID has been revoked
func (r *BunRevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.RevokedToken)(nil)).
		Where("jti = ?", jti).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return exists, nil
}

// DeleteExpired purges revocation rows whose tokens have expired anyway
func (r *BunRevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.NewDelete().
		Model((*models.RevokedToken)(nil)).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete expired revoked tokens: %w", err)
	}
	return nil
}
