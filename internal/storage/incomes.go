package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance/internal/core"
)

const incomeColumns = `id, user_id, amount, source, description, frequency, transaction_date, recurring, created_at`

// IncomeRepository persists incomes.
type IncomeRepository struct {
	db  *DB
	now func() time.Time
}

func NewIncomeRepository(db *DB) *IncomeRepository {
	return &IncomeRepository{db: db, now: time.Now}
}

func (r *IncomeRepository) Insert(ctx context.Context, in *core.Income) error {
	if in.CreatedAt.IsZero() {
		in.CreatedAt = r.now().UTC()
	}
	err := r.db.queryRow(ctx,
		`INSERT INTO incomes (user_id, amount, source, description, frequency, transaction_date, recurring, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		in.UserID, in.Amount, in.Source, in.Description, string(in.Frequency), in.TransactionDate, in.Recurring,
		r.db.timeArg(in.CreatedAt),
	).Scan(&in.ID)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (r *IncomeRepository) Get(ctx context.Context, id int64) (*core.Income, error) {
	row := r.db.queryRow(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE id = ?`, id)
	in, err := scanIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get income %d: %w", id, err)
	}
	return in, nil
}

func (r *IncomeRepository) Update(ctx context.Context, in *core.Income) error {
	res, err := r.db.exec(ctx,
		`UPDATE incomes SET amount = ?, source = ?, description = ?, frequency = ?, transaction_date = ?, recurring = ?
		 WHERE id = ?`,
		in.Amount, in.Source, in.Description, string(in.Frequency), in.TransactionDate, in.Recurring, in.ID)
	if err != nil {
		return fmt.Errorf("update income %d: %w", in.ID, err)
	}
	return expectOneRow(res)
}

func (r *IncomeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.exec(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	return expectOneRow(res)
}

func (r *IncomeRepository) ListByUser(ctx context.Context, userID string) ([]core.Income, error) {
	return r.list(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ?
		 ORDER BY transaction_date DESC, id ASC`, userID)
}

// ListBetween returns incomes dated within [from, to], both ends inclusive.
func (r *IncomeRepository) ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Income, error) {
	return r.list(ctx,
		`SELECT `+incomeColumns+` FROM incomes
		 WHERE user_id = ? AND transaction_date >= ? AND transaction_date <= ?
		 ORDER BY transaction_date DESC, id ASC`, userID, from, to)
}

func (r *IncomeRepository) ListByRecurring(ctx context.Context, userID string, recurring bool) ([]core.Income, error) {
	return r.list(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ? AND recurring = ?
		 ORDER BY transaction_date DESC, id ASC`, userID, recurring)
}

func (r *IncomeRepository) list(ctx context.Context, query string, args ...any) ([]core.Income, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	out := []core.Income{}
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}
	return out, nil
}

func scanIncome(s rowScanner) (*core.Income, error) {
	var (
		in        core.Income
		frequency string
		created   timestamp
	)
	if err := s.Scan(&in.ID, &in.UserID, &in.Amount, &in.Source, &in.Description, &frequency,
		&in.TransactionDate, &in.Recurring, &created); err != nil {
		return nil, err
	}
	in.Frequency = core.Frequency(frequency)
	in.CreatedAt = created.Time
	return &in, nil
}
