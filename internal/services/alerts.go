package services

import (
	"context"
	"time"

	"finance/internal/amqp"
	"finance/internal/core"
	"finance/internal/log"
)

const (
	alertQueueSize      = 64
	alertPublishTimeout = 10 * time.Second
)

// AlertPublisher delivers over-budget notifications.
type AlertPublisher interface {
	PublishBudgetExceeded(ctx context.Context, msg *amqp.BudgetExceededMessage) error
}

// BudgetWatcher re-evaluates the envelopes an expense falls into and queues
// an alert for each one that is over budget. Alerts are delivered by Run on
// its own goroutine, so a slow or absent broker never delays the request
// that triggered them. When the queue is full the alert is dropped.
type BudgetWatcher struct {
	budgets   BudgetStore
	expenses  ExpenseLister
	publisher AlertPublisher

	queue chan *amqp.BudgetExceededMessage
}

func NewBudgetWatcher(budgets BudgetStore, expenses ExpenseLister, publisher AlertPublisher) *BudgetWatcher {
	return &BudgetWatcher{
		budgets:   budgets,
		expenses:  expenses,
		publisher: publisher,
		queue:     make(chan *amqp.BudgetExceededMessage, alertQueueSize),
	}
}

// Check is a no-op on a nil watcher. It never blocks on the publisher.
func (w *BudgetWatcher) Check(ctx context.Context, e *core.Expense) {
	if w == nil || w.publisher == nil {
		return
	}
	logger := log.FromContext(ctx).WithComponent(log.ComponentBudget)

	month, year := int(e.TransactionDate.Month()), e.TransactionDate.Year()
	budgets, err := w.budgets.ListByCategoryPeriod(ctx, e.UserID, e.Category, month, year)
	if err != nil {
		logger.WarnContext(ctx, "Budget alert check failed", log.FieldError, err.Error())
		return
	}
	if len(budgets) == 0 {
		return
	}

	expenses, err := monthExpenses(ctx, w.expenses, e.UserID, month, year)
	if err != nil {
		logger.WarnContext(ctx, "Budget alert check failed", log.FieldError, err.Error())
		return
	}

	for i, item := range core.ComputeProgress(budgets, expenses) {
		if item.Spent.Cmp(item.BudgetAmount) <= 0 {
			continue
		}
		select {
		case w.queue <- amqp.NewBudgetExceededMessage(e.UserID, budgets[i], item):
		default:
			logger.WarnContext(ctx, "Budget alert queue full, alert dropped",
				log.NewFields().WithResource("budget", item.ID).WithPeriod(month, year).ToSlice()...)
		}
	}
}

// Run publishes queued alerts until ctx is done. Each publish gets its own
// deadline. It returns nil so it can run inside an errgroup.
func (w *BudgetWatcher) Run(ctx context.Context) error {
	logger := log.FromContext(ctx).WithComponent(log.ComponentBudget)
	for {
		select {
		case <-ctx.Done():
			if n := len(w.queue); n > 0 {
				logger.Warn("Budget alerts discarded at shutdown", "count", n)
			}
			return nil
		case msg := <-w.queue:
			pubCtx, cancel := context.WithTimeout(ctx, alertPublishTimeout)
			err := w.publisher.PublishBudgetExceeded(pubCtx, msg)
			cancel()
			if err != nil {
				logger.WarnContext(ctx, "Failed to publish budget alert",
					log.NewFields().WithError(err).WithUser(msg.UserID).
						WithResource("budget", msg.BudgetID).WithPeriod(msg.Month, msg.Year).ToSlice()...)
			}
		}
	}
}
