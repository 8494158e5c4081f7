package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance/internal/core"

	"github.com/google/uuid"
)

// UserRepository persists accounts.
type UserRepository struct {
	db  *DB
	now func() time.Time
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Save inserts a new user, assigning its id and creation time. A duplicate
// email yields core.ErrEmailExists.
func (r *UserRepository) Save(ctx context.Context, u *core.User) error {
	u.Email = core.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}

	_, err := r.db.exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, email_verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.EmailVerified, r.db.timeArg(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail looks a user up case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	row := r.db.queryRow(ctx,
		`SELECT id, email, password_hash, full_name, email_verified, created_at
		 FROM users WHERE email = ?`, core.NormalizeEmail(email))

	var (
		u       core.User
		created timestamp
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.EmailVerified, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u.CreatedAt = created.Time
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, core.NormalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return n > 0, nil
}
