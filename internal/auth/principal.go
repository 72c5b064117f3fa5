package auth

// Role is the closed set of roles a principal can carry.
type Role string

const (
	// RoleUser is the default role for registered accounts.
	RoleUser Role = "USER"
	// RoleAdmin grants access to every deck and to admin-only listings.
	RoleAdmin Role = "ADMIN"
)

// RoleFromString maps a stored role string onto the closed set. Unknown
// values map to an empty Role, which never authenticates.
func RoleFromString(s string) Role {
	switch s {
	case string(RoleUser):
		return RoleUser
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return ""
	}
}

// Principal captures the resolved identity for the current request.
//
// It is constructed once per request by the authentication middleware and
// never mutated afterwards. The zero value is the anonymous principal:
// requests with no credential, or with a malformed/expired/revoked one,
// carry it instead of an error.
type Principal struct {
	// UserID is the numeric account ID, 0 for anonymous.
	UserID int64

	// Subject is the login name carried in the credential, empty for
	// anonymous. Ownership checks resolve it back to a numeric ID through
	// the user store rather than trusting UserID blindly.
	Subject string

	// Role is the principal's role claim. Only RoleUser and RoleAdmin count
	// as authenticated.
	Role Role
}

// Anonymous returns the principal used for unauthenticated requests.
func Anonymous() Principal {
	return Principal{}
}

// IsAuthenticated reports whether the principal carries an identity and a
// role from the closed set. Credential validity is the resolver's concern
// and is already folded in: an invalid credential never produces a
// non-anonymous principal.
func (p Principal) IsAuthenticated() bool {
	return p.Subject != "" && (p.Role == RoleUser || p.Role == RoleAdmin)
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
