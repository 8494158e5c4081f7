package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance/internal/core"
	"finance/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryUsers struct {
	byEmail map[string]*core.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: map[string]*core.User{}}
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*core.User, error) {
	u, ok := m.byEmail[core.NormalizeEmail(email)]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (m *memoryUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[core.NormalizeEmail(email)]
	return ok, nil
}

func (m *memoryUsers) Save(_ context.Context, u *core.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return core.ErrEmailExists
	}
	u.ID = "user-" + u.Email
	m.byEmail[u.Email] = u
	return nil
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *memoryUsers, *TokenService) {
	t.Helper()
	users := newMemoryUsers()
	tokens := newTestTokens(t, &fakeClock{t: time.Now()})
	return NewAuthenticator(users, NewHasher(bcrypt.MinCost), tokens), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	a, users, tokens := newTestAuthenticator(t)
	ctx := context.Background()

	session, err := a.Register(ctx, "A@X.com", "pw1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", session.Email)
	assert.Equal(t, "Alice", session.FullName)

	sub, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sub)

	stored := users.byEmail["a@x.com"]
	require.NotNil(t, stored)
	assert.True(t, stored.EmailVerified)
	assert.NotEqual(t, "pw1", stored.PasswordHash)

	_, err = a.Register(ctx, "a@x.com", "other", "Alias")
	assert.ErrorIs(t, err, core.ErrEmailExists)

	login, err := a.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	a, _, _ := newTestAuthenticator(t)
	ctx := context.Background()
	_, err := a.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	_, wrongPassword := a.Login(ctx, "a@x.com", "nope")
	_, unknownEmail := a.Login(ctx, "ghost@x.com", "pw1")

	assert.ErrorIs(t, wrongPassword, core.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, core.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRegisterRequiresFields(t *testing.T) {
	a, _, _ := newTestAuthenticator(t)
	for _, tc := range []struct{ email, password, name string }{
		{"", "pw", "A"},
		{"a@x.com", "", "A"},
		{"a@x.com", "pw", "  "},
	} {
		_, err := a.Register(context.Background(), tc.email, tc.password, tc.name)
		var verr *core.ValidationError
		assert.True(t, errors.As(err, &verr), "%+v", tc)
	}
}

func TestGate(t *testing.T) {
	a, users, tokens := newTestAuthenticator(t)
	session, err := a.Register(context.Background(), "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	gate := NewGate(tokens, users, DefaultPublicAllowlist(), log.Discard())

	var seen *core.User
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name      string
		path      string
		header    string
		principal bool
	}{
		{"valid token", "/api/expenses", "Bearer " + session.Token, true},
		{"lowercase scheme", "/api/expenses", "bearer " + session.Token, true},
		{"no header", "/api/expenses", "", false},
		{"basic auth", "/api/expenses", "Basic YTpi", false},
		{"garbage token", "/api/expenses", "Bearer garbage", false},
		{"public path ignores token", "/api/auth/login", "Bearer " + session.Token, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code, "gate never rejects")
			if tc.principal {
				require.NotNil(t, seen)
				assert.Equal(t, "a@x.com", seen.Email)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestGateUnknownSubject(t *testing.T) {
	users := newMemoryUsers()
	tokens := newTestTokens(t, &fakeClock{t: time.Now()})
	token, err := tokens.Issue("deleted@x.com")
	require.NoError(t, err)

	gate := NewGate(tokens, users, DefaultPublicAllowlist(), log.Discard())
	var seen *core.User
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, seen)
}

func TestPublicAllowlist(t *testing.T) {
	p := DefaultPublicAllowlist()
	for _, path := range []string{"/", "/index.html", "/css/app.css", "/js/a/b.js", "/api/auth/register", "/.well-known/x"} {
		assert.True(t, p.Allows(path), path)
	}
	for _, path := range []string{"/api/expenses", "/api/budgets/progress", "/secret.html"} {
		assert.False(t, p.Allows(path), path)
	}
}
