package auth

import (
	"context"

	"finance/internal/cache"
	"finance/internal/core"
)

// CachedUsers memoizes successful user lookups so an authenticated request
// does not hit the users table every time. Accounts are never edited after
// creation, so entries only need to expire.
type CachedUsers struct {
	next  UserFinder
	cache cache.Store[*core.User]
}

func NewCachedUsers(next UserFinder, store cache.Store[*core.User]) *CachedUsers {
	return &CachedUsers{next: next, cache: store}
}

func (c *CachedUsers) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	key := core.NormalizeEmail(email)
	if u, ok := c.cache.Get(key); ok {
		return u, nil
	}
	u, err := c.next.FindByEmail(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, u)
	return u, nil
}
