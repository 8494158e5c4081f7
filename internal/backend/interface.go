package backend

import (
	"context"

	"finance/internal/amqp"
	"finance/internal/storage"
)

// Backend bundles the stores and the optional alert client one process
// needs.
type Backend struct {
	DB       *storage.DB
	Users    *storage.UserRepository
	Expenses *storage.ExpenseRepository
	Incomes  *storage.IncomeRepository
	Budgets  *storage.BudgetRepository

	// Alerts is nil when budget alerts are disabled or the broker was
	// unreachable at start.
	Alerts *amqp.Client
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and its cleanup function
type BackendResult struct {
	Backend *Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType
	DSN  string

	// AMQP is optional; an empty URL disables it.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
