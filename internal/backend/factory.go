package backend

import (
	"context"
	"errors"
	"fmt"

	"finance/internal/amqp"
	"finance/internal/log"
	"finance/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the database, applies migrations and connects to the
// broker when configured.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, config.Type.String(), config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", config.Type, err)
	}

	b := &Backend{
		DB:       db,
		Users:    storage.NewUserRepository(db),
		Expenses: storage.NewExpenseRepository(db),
		Incomes:  storage.NewIncomeRepository(db),
		Budgets:  storage.NewBudgetRepository(db),
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		switch {
		case err != nil:
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without budget alerts", log.FieldError, err.Error())
		default:
			b.Alerts = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		"type", config.Type.String(),
		"alerts_enabled", b.Alerts != nil)

	return &BackendResult{
		Backend: b,
		Cleanup: b.Close,
	}, nil
}

// Close releases the broker connection and the database.
func (b *Backend) Close() error {
	var errs []error
	if b.Alerts != nil {
		if err := b.Alerts.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close AMQP client: %w", err))
		}
	}
	if err := b.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
