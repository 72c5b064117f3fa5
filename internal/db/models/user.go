package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Role values stored in the users table. The set is closed; anything else
// must be rejected at the store boundary.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether the role string is inside the closed set.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User represents an account that can own decks.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	Username     string     `bun:"username,notnull,unique" json:"username"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Role         string     `bun:"role,notnull,default:'USER'" json:"role"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
	DisabledAt   *time.Time `bun:"disabled_at" json:"-"`
}

// ValidateForCreate verifies the record is well formed before insertion.
func (u *User) ValidateForCreate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if len(u.Username) > 64 {
		return errors.New("username exceeds maximum length")
	}
	if u.PasswordHash == "" {
		return errors.New("password_hash is required")
	}
	if !ValidRole(u.Role) {
		return errors.New("role outside the allowed set")
	}
	return nil
}
