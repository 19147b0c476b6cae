package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Housing        Category = "Housing"
	Utilities      Category = "Utilities"
	Entertainment  Category = "Entertainment"
	Health         Category = "Health"
	Other          Category = "Other"
)

type (
	Category string

	// User is a registered account. Records are immutable after signup.
	User struct {
		ID           string `json:"id"`
		Username     string `json:"username"`
		Email        string `json:"email"`
		PasswordHash string `json:"passwordHash"`
	}

	// Expense is a single dated, categorized spending record.
	Expense struct {
		ID        string   `json:"id"`
		UserID    string   `json:"userId"`
		Title     string   `json:"title"`
		Amount    float64  `json:"amount"`
		Category  Category `json:"category"`
		Date      string   `json:"date"` // calendar date, yyyy-mm-dd
		CreatedAt int64    `json:"createdAt"`
	}

	// ExpenseInput carries the caller-supplied fields of a new expense.
	ExpenseInput struct {
		UserID   string   `json:"userId"`
		Title    string   `json:"title"`
		Amount   float64  `json:"amount"`
		Category Category `json:"category"`
		Date     string   `json:"date"`
	}
)

var (
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyUserID     = errors.New("empty user id")
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{Food, Transportation, Shopping, Housing, Utilities, Entertainment, Health, Other}
}

func (c Category) Valid() bool {
	switch c {
	case Food, Transportation, Shopping, Housing, Utilities, Entertainment, Health, Other:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (c Category) String() string {
	return string(c)
}

// ParseDate parses a yyyy-mm-dd calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if len(in.Title) > 200 {
		return ErrTitleTooLong
	}
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(in.Date); err != nil {
		return err
	}
	if !in.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}

func (e Expense) Validate() error {
	in := ExpenseInput{
		UserID:   e.UserID,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.Date,
	}
	return in.Validate()
}
