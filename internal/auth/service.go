package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance/internal/core"
)

// UserStore is the persistence the Authenticator needs.
type UserStore interface {
	UserFinder
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, u *core.User) error
}

// Session is returned by a successful register or login.
type Session struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Authenticator implements registration and login.
type Authenticator struct {
	users  UserStore
	hasher *Hasher
	tokens *TokenService
}

func NewAuthenticator(users UserStore, hasher *Hasher, tokens *TokenService) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a pre-verified account and logs it in.
func (a *Authenticator) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	email = core.NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	switch {
	case email == "":
		return nil, &core.ValidationError{Field: "email", Reason: "is required"}
	case password == "":
		return nil, &core.ValidationError{Field: "password", Reason: "is required"}
	case fullName == "":
		return nil, &core.ValidationError{Field: "fullName", Reason: "is required"}
	}

	exists, err := a.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.ErrEmailExists
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &core.User{
		Email:         email,
		PasswordHash:  hash,
		FullName:      fullName,
		EmailVerified: true,
	}
	// The unique index still catches a concurrent registration.
	if err := a.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return a.session(user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !a.hasher.Matches(password, user.PasswordHash) {
		return nil, core.ErrInvalidCredentials
	}
	return a.session(user)
}

func (a *Authenticator) session(u *core.User) (*Session, error) {
	token, err := a.tokens.Issue(u.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Email: u.Email, FullName: u.FullName}, nil
}
