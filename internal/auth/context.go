package auth

import "context"

type principalContextKey struct{}

// SetPrincipalContext stores the resolved principal on the context for
// downstream consumers.
func SetPrincipalContext(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the resolved principal from the context.
// Requests that never passed the authentication middleware read as
// anonymous.
func PrincipalFromContext(ctx context.Context) Principal {
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok {
		return Anonymous()
	}
	return principal
}
