package amqp

import (
	"encoding/json"
	"time"

	"finance/internal/core"
)

// BudgetExceededMessage announces that spending in a budget envelope went
// over its amount.
type BudgetExceededMessage struct {
	UserID       string     `json:"userId"`
	BudgetID     int64      `json:"budgetId"`
	Category     string     `json:"category"`
	Month        int        `json:"month"`
	Year         int        `json:"year"`
	BudgetAmount core.Money `json:"budgetAmount"`
	Spent        core.Money `json:"spent"`
	Timestamp    time.Time  `json:"timestamp"`
}

func NewBudgetExceededMessage(userID string, b core.Budget, item core.ProgressItem) *BudgetExceededMessage {
	return &BudgetExceededMessage{
		UserID:       userID,
		BudgetID:     b.ID,
		Category:     b.Category,
		Month:        b.Month,
		Year:         b.Year,
		BudgetAmount: item.BudgetAmount,
		Spent:        item.Spent,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetExceededMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetExceededMessageFromJSON creates a message from JSON bytes
func BudgetExceededMessageFromJSON(data []byte) (*BudgetExceededMessage, error) {
	var msg BudgetExceededMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
