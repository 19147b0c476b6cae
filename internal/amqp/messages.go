package amqp

import (
	"encoding/json"
	"time"

	"trackmaster/internal/core"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEvent describes one mutation of the expense collection. Created and
// updated events carry the full record so the backup worker never has to read
// the store; deleted events carry only the id.
type ExpenseEvent struct {
	Action    string        `json:"action"`
	ExpenseID string        `json:"expenseId"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewExpenseEvent(action string, e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    action,
		ExpenseID: e.ID,
		Expense:   &e,
		Timestamp: time.Now(),
	}
}

func NewExpenseDeletedEvent(id string) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    ActionDeleted,
		ExpenseID: id,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
