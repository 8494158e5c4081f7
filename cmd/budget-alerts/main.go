// Command budget-alerts consumes over-budget alerts from the broker and
// logs them. It is the reference consumer for the budget_alerts queue and
// needs no database access.
package main

import (
	"context"
	"errors"
	"os"

	"finance/internal/amqp"
	"finance/internal/cli"
	"finance/internal/log"
)

func main() {
	cfg, logger := cli.LoadConsumerConfig()

	ctx, stop := cli.SignalContext()
	defer stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	logger.Info("Starting budget-alerts consumer", "queue", cfg.AMQPQueue)
	err = client.ConsumeBudgetAlerts(ctx, handleAlert(logger.WithComponent(log.ComponentAMQP)))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("budget-alerts stopped")
}

func handleAlert(logger *log.Logger) func(context.Context, *amqp.BudgetExceededMessage) error {
	return func(ctx context.Context, msg *amqp.BudgetExceededMessage) error {
		fields := log.NewFields().
			WithUser(msg.UserID).
			WithResource("budget", msg.BudgetID).
			WithPeriod(msg.Month, msg.Year)
		fields[log.FieldCategory] = msg.Category
		logger.WarnContext(ctx, "Budget exceeded",
			append(fields.ToSlice(),
				"budget_amount", msg.BudgetAmount.String(),
				"spent", msg.Spent.String(),
				"over_by", msg.Spent.Sub(msg.BudgetAmount).String())...)
		return nil
	}
}
