package core

import "github.com/shopspring/decimal"

// ProgressItem reports spend against one budget envelope.
type ProgressItem struct {
	ID           int64  `json:"id"`
	Category     string `json:"category"`
	BudgetAmount Money  `json:"budgetAmount"`
	Spent        Money  `json:"spent"`
	Remaining    Money  `json:"remaining"`
	Percentage   int64  `json:"percentage"`
}

var hundred = decimal.NewFromInt(100)

// SpentByCategory sums expense amounts per category.
func SpentByCategory(expenses []Expense) map[string]Money {
	out := make(map[string]Money)
	for _, e := range expenses {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}

// ComputeProgress evaluates each envelope against the expenses of its period.
//
// Callers pass only the expenses that fall inside the budgets' month; every
// envelope is reported, duplicates included, in the order given. Remaining
// may go negative. Percentage is spent/budget rounded half-up to four places,
// times 100, truncated to an integer.
func ComputeProgress(budgets []Budget, expenses []Expense) []ProgressItem {
	spent := SpentByCategory(expenses)

	items := make([]ProgressItem, 0, len(budgets))
	for _, b := range budgets {
		s, ok := spent[b.Category]
		if !ok {
			s = Zero
		}
		items = append(items, ProgressItem{
			ID:           b.ID,
			Category:     b.Category,
			BudgetAmount: b.BudgetAmount,
			Spent:        s,
			Remaining:    b.BudgetAmount.Sub(s),
			Percentage:   Percentage(s, b.BudgetAmount),
		})
	}
	return items
}

// Percentage returns trunc(round_half_up(spent/budget, 4) * 100). A
// non-positive budget yields 0.
func Percentage(spent, budget Money) int64 {
	if budget.Sign() <= 0 {
		return 0
	}
	ratio := spent.Decimal().DivRound(budget.Decimal(), 4)
	return ratio.Mul(hundred).IntPart()
}
