package auth

import (
	"context"

	"finance/internal/core"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying the authenticated user.
func WithPrincipal(ctx context.Context, u *core.User) context.Context {
	return context.WithValue(ctx, principalKey, u)
}

// PrincipalFrom returns the authenticated user, or nil for anonymous
// requests.
func PrincipalFrom(ctx context.Context) *core.User {
	u, _ := ctx.Value(principalKey).(*core.User)
	return u
}

// RequirePrincipal is PrincipalFrom that fails with core.ErrNotAuthenticated.
func RequirePrincipal(ctx context.Context) (*core.User, error) {
	u := PrincipalFrom(ctx)
	if u == nil {
		return nil, core.ErrNotAuthenticated
	}
	return u, nil
}
