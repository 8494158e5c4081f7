package auth

import (
	"context"
	"net/http"
	"strings"

	"finance/internal/core"
	"finance/internal/log"
)

// UserFinder looks users up by email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*core.User, error)
}

// PublicAllowlist decides which paths skip token processing entirely.
type PublicAllowlist struct {
	exact    map[string]bool
	prefixes []string
}

// DefaultPublicAllowlist covers the static front-end assets and the
// auth endpoints.
func DefaultPublicAllowlist() PublicAllowlist {
	return PublicAllowlist{
		exact: map[string]bool{
			"/":                  true,
			"/index.html":        true,
			"/login.html":        true,
			"/register.html":     true,
			"/transactions.html": true,
			"/favicon.ico":       true,
			"/error":             true,
			"/healthz":           true,
			"/readyz":            true,
		},
		prefixes: []string{"/css/", "/js/", "/images/", "/.well-known/", "/api/auth/"},
	}
}

// Allows reports whether path is public.
func (p PublicAllowlist) Allows(path string) bool {
	if p.exact[path] {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Gate resolves the bearer token into a principal. It never rejects a
// request: a missing or bad token leaves the request anonymous and the
// downstream service decides.
type Gate struct {
	tokens    *TokenService
	users     UserFinder
	allowlist PublicAllowlist
	logger    *log.Logger
}

func NewGate(tokens *TokenService, users UserFinder, allowlist PublicAllowlist, logger *log.Logger) *Gate {
	return &Gate{
		tokens:    tokens,
		users:     users,
		allowlist: allowlist,
		logger:    logger.WithComponent(log.ComponentAuth),
	}
}

func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.allowlist.Allows(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if user := g.resolve(r.Context(), token); user != nil {
			r = r.WithContext(WithPrincipal(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) resolve(ctx context.Context, token string) *core.User {
	email, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.DebugContext(ctx, "Bearer token rejected", log.FieldError, err.Error())
		return nil
	}
	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		g.logger.DebugContext(ctx, "Token subject not resolvable", log.FieldError, err.Error())
		return nil
	}
	return user
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
