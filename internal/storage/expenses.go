package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance/internal/core"
)

const expenseColumns = `id, user_id, amount, category, description, transaction_date, created_at`

// ExpenseRepository persists expenses. Every list query is scoped to one
// owner.
type ExpenseRepository struct {
	db  *DB
	now func() time.Time
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db, now: time.Now}
}

func (r *ExpenseRepository) Insert(ctx context.Context, e *core.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}
	err := r.db.queryRow(ctx,
		`INSERT INTO expenses (user_id, amount, category, description, transaction_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		e.UserID, e.Amount, e.Category, e.Description, e.TransactionDate, r.db.timeArg(e.CreatedAt),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// Get loads an expense by id regardless of owner; ownership is the
// caller's decision.
func (r *ExpenseRepository) Get(ctx context.Context, id int64) (*core.Expense, error) {
	row := r.db.queryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e *core.Expense) error {
	res, err := r.db.exec(ctx,
		`UPDATE expenses SET amount = ?, category = ?, description = ?, transaction_date = ?
		 WHERE id = ?`,
		e.Amount, e.Category, e.Description, e.TransactionDate, e.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return expectOneRow(res)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return expectOneRow(res)
}

// ListByUser returns the owner's expenses, newest transaction first.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]core.Expense, error) {
	return r.list(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ?
		 ORDER BY transaction_date DESC, id ASC`, userID)
}

func (r *ExpenseRepository) ListByCategory(ctx context.Context, userID, category string) ([]core.Expense, error) {
	return r.list(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? AND category = ?
		 ORDER BY transaction_date DESC, id ASC`, userID, category)
}

// ListBetween returns expenses dated within [from, to], both ends inclusive.
func (r *ExpenseRepository) ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Expense, error) {
	return r.list(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = ? AND transaction_date >= ? AND transaction_date <= ?
		 ORDER BY transaction_date DESC, id ASC`, userID, from, to)
}

func (r *ExpenseRepository) list(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func scanExpense(s rowScanner) (*core.Expense, error) {
	var (
		e       core.Expense
		created timestamp
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.TransactionDate, &created); err != nil {
		return nil, err
	}
	e.CreatedAt = created.Time
	return &e, nil
}

// expectOneRow turns a zero-row write into core.ErrNotFound.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
