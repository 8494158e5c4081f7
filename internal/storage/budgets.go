package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance/internal/core"
)

const budgetColumns = `id, user_id, category, budget_amount, month, year, created_at`

// BudgetRepository persists budget envelopes.
type BudgetRepository struct {
	db  *DB
	now func() time.Time
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db, now: time.Now}
}

func (r *BudgetRepository) Insert(ctx context.Context, b *core.Budget) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.now().UTC()
	}
	err := r.db.queryRow(ctx,
		`INSERT INTO budgets (user_id, category, budget_amount, month, year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		b.UserID, b.Category, b.BudgetAmount, b.Month, b.Year, r.db.timeArg(b.CreatedAt),
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) Get(ctx context.Context, id int64) (*core.Budget, error) {
	row := r.db.queryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

func (r *BudgetRepository) Update(ctx context.Context, b *core.Budget) error {
	res, err := r.db.exec(ctx,
		`UPDATE budgets SET category = ?, budget_amount = ?, month = ?, year = ? WHERE id = ?`,
		b.Category, b.BudgetAmount, b.Month, b.Year, b.ID)
	if err != nil {
		return fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	return expectOneRow(res)
}

func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	return expectOneRow(res)
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID string) ([]core.Budget, error) {
	return r.list(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY id`, userID)
}

// ListByPeriod returns the owner's envelopes for one month, in id order.
func (r *BudgetRepository) ListByPeriod(ctx context.Context, userID string, month, year int) ([]core.Budget, error) {
	return r.list(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND month = ? AND year = ? ORDER BY id`,
		userID, month, year)
}

func (r *BudgetRepository) ListByCategoryPeriod(ctx context.Context, userID, category string, month, year int) ([]core.Budget, error) {
	return r.list(ctx,
		`SELECT `+budgetColumns+` FROM budgets
		 WHERE user_id = ? AND category = ? AND month = ? AND year = ? ORDER BY id`,
		userID, category, month, year)
}

func (r *BudgetRepository) list(ctx context.Context, query string, args ...any) ([]core.Budget, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func scanBudget(s rowScanner) (*core.Budget, error) {
	var (
		b       core.Budget
		created timestamp
	)
	if err := s.Scan(&b.ID, &b.UserID, &b.Category, &b.BudgetAmount, &b.Month, &b.Year, &created); err != nil {
		return nil, err
	}
	b.CreatedAt = created.Time
	return &b, nil
}
