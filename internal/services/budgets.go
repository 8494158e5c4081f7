package services

import (
	"context"

	"finance/internal/auth"
	"finance/internal/core"
)

// BudgetStore is the persistence BudgetService needs.
type BudgetStore interface {
	Store[core.Budget]
	ListByUser(ctx context.Context, userID string) ([]core.Budget, error)
	ListByPeriod(ctx context.Context, userID string, month, year int) ([]core.Budget, error)
	ListByCategoryPeriod(ctx context.Context, userID, category string, month, year int) ([]core.Budget, error)
}

// ExpenseLister is the read side of the expense store used for progress.
type ExpenseLister interface {
	ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Expense, error)
}

// BudgetService manages envelopes and computes spend progress.
type BudgetService struct {
	*Owned[core.Budget, *core.Budget]
	store    BudgetStore
	expenses ExpenseLister
}

func NewBudgetService(store BudgetStore, expenses ExpenseLister) *BudgetService {
	return &BudgetService{
		Owned:    NewOwned[core.Budget](store),
		store:    store,
		expenses: expenses,
	}
}

func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, user.ID)
}

func (s *BudgetService) ListByPeriod(ctx context.Context, month, year int) ([]core.Budget, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListByPeriod(ctx, user.ID, month, year)
}

// Progress reports spend against every envelope of the given month.
func (s *BudgetService) Progress(ctx context.Context, month, year int) ([]core.ProgressItem, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := core.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	budgets, err := s.store.ListByPeriod(ctx, user.ID, month, year)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []core.ProgressItem{}, nil
	}

	expenses, err := monthExpenses(ctx, s.expenses, user.ID, month, year)
	if err != nil {
		return nil, err
	}
	return core.ComputeProgress(budgets, expenses), nil
}

func monthExpenses(ctx context.Context, lister ExpenseLister, userID string, month, year int) ([]core.Expense, error) {
	start, end := core.MonthBounds(month, year)
	last := core.Date{Time: end.AddDate(0, 0, -1)}
	return lister.ListBetween(ctx, userID, start, last)
}
