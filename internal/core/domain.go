package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength bounds free-text descriptions on expenses and incomes.
const MaxDescriptionLength = 500

// Frequency describes how often an income recurs.
type Frequency string

const (
	Daily     Frequency = "DAILY"
	Weekly    Frequency = "WEEKLY"
	Biweekly  Frequency = "BIWEEKLY"
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Yearly    Frequency = "YEARLY"
	OneTime   Frequency = "ONE_TIME"
)

// Frequencies lists every accepted Frequency.
var Frequencies = []Frequency{Daily, Weekly, Biweekly, Monthly, Quarterly, Yearly, OneTime}

func (f Frequency) IsValid() bool {
	for _, v := range Frequencies {
		if f == v {
			return true
		}
	}
	return false
}

type (
	User struct {
		ID            string
		Email         string
		PasswordHash  string
		FullName      string
		EmailVerified bool
		CreatedAt     time.Time
	}

	Expense struct {
		ID              int64     `json:"id"`
		UserID          string    `json:"-"`
		Amount          Money     `json:"amount"`
		Category        string    `json:"category"`
		Description     string    `json:"description"`
		TransactionDate Date      `json:"transactionDate"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	Income struct {
		ID              int64     `json:"id"`
		UserID          string    `json:"-"`
		Amount          Money     `json:"amount"`
		Source          string    `json:"source"`
		Description     string    `json:"description"`
		Frequency       Frequency `json:"frequency"`
		TransactionDate Date      `json:"transactionDate"`
		Recurring       bool      `json:"recurring"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	// Budget is a spending envelope for one category in one month.
	Budget struct {
		ID           int64     `json:"id"`
		UserID       string    `json:"-"`
		Category     string    `json:"category"`
		BudgetAmount Money     `json:"budgetAmount"`
		Month        int       `json:"month"`
		Year         int       `json:"year"`
		CreatedAt    time.Time `json:"createdAt"`
	}
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("unauthorized")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
)

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NormalizeEmail lowercases and trims an address; identity is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateAmount(field string, m Money) error {
	if !m.Valid() {
		return invalid(field, "is required")
	}
	if m.Sign() < 0 {
		return invalid(field, "must not be negative")
	}
	if !m.InRange() {
		return invalid(field, fmt.Sprintf("must have at most %d integer digits and %d decimal places",
			MaxAmountIntegerDigits, MaxAmountFractionDigits))
	}
	return nil
}

func validateDescription(s string) error {
	if utf8.RuneCountInString(s) > MaxDescriptionLength {
		return invalid("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLength))
	}
	return nil
}

func (e *Expense) Owner() string { return e.UserID }
func (e *Expense) AssignOwner(id string) { e.UserID = id }
func (e *Expense) Key() int64 { return e.ID }

func (e *Expense) Validate() error {
	if err := validateAmount("amount", e.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return invalid("category", "is required")
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if e.TransactionDate.IsZero() {
		return invalid("transactionDate", "is required")
	}
	return nil
}

// Merge copies the mutable fields of from onto e. Identity, owner and
// creation time are kept.
func (e *Expense) Merge(from *Expense) {
	e.Amount = from.Amount
	e.Category = strings.TrimSpace(from.Category)
	e.Description = from.Description
	e.TransactionDate = from.TransactionDate
}

func (i *Income) Owner() string { return i.UserID }
func (i *Income) AssignOwner(id string) { i.UserID = id }
func (i *Income) Key() int64 { return i.ID }

func (i *Income) Validate() error {
	if err := validateAmount("amount", i.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(i.Source) == "" {
		return invalid("source", "is required")
	}
	if err := validateDescription(i.Description); err != nil {
		return err
	}
	if !i.Frequency.IsValid() {
		return invalid("frequency", fmt.Sprintf("must be one of %v", Frequencies))
	}
	if i.TransactionDate.IsZero() {
		return invalid("transactionDate", "is required")
	}
	return nil
}

func (i *Income) Merge(from *Income) {
	i.Amount = from.Amount
	i.Source = strings.TrimSpace(from.Source)
	i.Description = from.Description
	i.Frequency = from.Frequency
	i.TransactionDate = from.TransactionDate
	i.Recurring = from.Recurring
}

func (b *Budget) Owner() string { return b.UserID }
func (b *Budget) AssignOwner(id string) { b.UserID = id }
func (b *Budget) Key() int64 { return b.ID }

func (b *Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return invalid("category", "is required")
	}
	if !b.BudgetAmount.Valid() {
		return invalid("budgetAmount", "is required")
	}
	if b.BudgetAmount.Sign() <= 0 {
		return invalid("budgetAmount", "must be greater than zero")
	}
	if err := ValidatePeriod(b.Month, b.Year); err != nil {
		return err
	}
	return nil
}

func (b *Budget) Merge(from *Budget) {
	b.Category = strings.TrimSpace(from.Category)
	b.BudgetAmount = from.BudgetAmount
	b.Month = from.Month
	b.Year = from.Year
}

// ValidatePeriod checks a budget month/year pair.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return invalid("month", "must be between 1 and 12")
	}
	if year < 1000 || year > 9999 {
		return invalid("year", "must have four digits")
	}
	return nil
}
