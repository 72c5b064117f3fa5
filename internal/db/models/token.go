package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RevokedToken records a JWT ID that must no longer authenticate. Rows are
// kept until the token would have expired anyway.
type RevokedToken struct {
	bun.BaseModel `bun:"table:revoked_tokens,alias:rt"`

	JTI       string    `bun:"jti,pk" json:"jti"`
	UserID    int64     `bun:"user_id,notnull" json:"userId"`
	ExpiresAt time.Time `bun:"expires_at,notnull" json:"expiresAt"`
	RevokedAt time.Time `bun:"revoked_at,notnull,default:current_timestamp" json:"revokedAt"`
}
