package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"finance/internal/amqp"
	"finance/internal/core"
	"finance/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAlertLogsOverspend(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf, Component: log.ComponentAMQP})

	msg := &amqp.BudgetExceededMessage{
		UserID:       "u-1",
		BudgetID:     7,
		Category:     "Food",
		Month:        3,
		Year:         2024,
		BudgetAmount: core.MustParseMoney("100"),
		Spent:        core.MustParseMoney("130.5"),
	}
	require.NoError(t, handleAlert(logger)(context.Background(), msg))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Budget exceeded", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Food", entry[log.FieldCategory])
	assert.Equal(t, "100.00", entry["budget_amount"])
	assert.Equal(t, "130.50", entry["spent"])
	assert.Equal(t, "30.50", entry["over_by"])
	assert.Equal(t, float64(2024), entry[log.FieldYear])
}
