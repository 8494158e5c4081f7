package services

import (
	"context"

	"finance/internal/auth"
	"finance/internal/core"
	"finance/internal/log"
)

// ExpenseStore is the persistence ExpenseService needs.
type ExpenseStore interface {
	Store[core.Expense]
	ListByUser(ctx context.Context, userID string) ([]core.Expense, error)
	ListByCategory(ctx context.Context, userID, category string) ([]core.Expense, error)
	ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Expense, error)
}

// ExpenseService manages the principal's expenses.
type ExpenseService struct {
	*Owned[core.Expense, *core.Expense]
	store   ExpenseStore
	watcher *BudgetWatcher
}

// NewExpenseService wires the store. watcher may be nil when budget alerts
// are disabled.
func NewExpenseService(store ExpenseStore, watcher *BudgetWatcher) *ExpenseService {
	return &ExpenseService{
		Owned:   NewOwned[core.Expense](store),
		store:   store,
		watcher: watcher,
	}
}

func (s *ExpenseService) Create(ctx context.Context, in *core.Expense) (*core.Expense, error) {
	e, err := s.Owned.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).WithComponent(log.ComponentExpense).InfoContext(ctx, "Expense created",
		log.NewFields().WithUser(e.UserID).WithResource("expense", e.ID).WithOperation(log.OpCreate).ToSlice()...)
	s.watcher.Check(ctx, e)
	return e, nil
}

func (s *ExpenseService) Update(ctx context.Context, id int64, patch *core.Expense) (*core.Expense, error) {
	e, err := s.Owned.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.watcher.Check(ctx, e)
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, user.ID)
}

func (s *ExpenseService) ListByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListByCategory(ctx, user.ID, category)
}

// ListBetween returns expenses within [from, to] inclusive.
func (s *ExpenseService) ListBetween(ctx context.Context, from, to core.Date) ([]core.Expense, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListBetween(ctx, user.ID, from, to)
}
