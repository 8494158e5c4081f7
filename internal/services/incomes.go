package services

import (
	"context"

	"finance/internal/auth"
	"finance/internal/core"
)

// IncomeStore is the persistence IncomeService needs.
type IncomeStore interface {
	Store[core.Income]
	ListByUser(ctx context.Context, userID string) ([]core.Income, error)
	ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Income, error)
	ListByRecurring(ctx context.Context, userID string, recurring bool) ([]core.Income, error)
}

// IncomeService manages the principal's incomes.
type IncomeService struct {
	*Owned[core.Income, *core.Income]
	store IncomeStore
}

func NewIncomeService(store IncomeStore) *IncomeService {
	return &IncomeService{Owned: NewOwned[core.Income](store), store: store}
}

func (s *IncomeService) List(ctx context.Context) ([]core.Income, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, user.ID)
}

func (s *IncomeService) ListBetween(ctx context.Context, from, to core.Date) ([]core.Income, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListBetween(ctx, user.ID, from, to)
}

func (s *IncomeService) ListByRecurring(ctx context.Context, recurring bool) ([]core.Income, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListByRecurring(ctx, user.ID, recurring)
}
