package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"trackmaster/internal/blob"
	"trackmaster/internal/core"
)

// Expenses holds every expense across all users in one collection and
// provides per-user filtered CRUD.
//
// Update and Remove are keyed by id only. Any caller holding an expense id
// may mutate it regardless of owner.
type Expenses struct {
	mu    sync.Mutex
	blobs blob.Store
	newID func() string
	now   func() time.Time
}

func NewExpenses(blobs blob.Store, newID func() string) *Expenses {
	return &Expenses{blobs: blobs, newID: newID, now: time.Now}
}

// Add validates the input, assigns an id and creation timestamp and appends
// the expense to the global collection.
func (s *Expenses) Add(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := readCollection[core.Expense](ctx, s.blobs, blob.ExpensesKey)
	if err != nil {
		return core.Expense{}, fmt.Errorf("load expenses: %w", err)
	}

	e := core.Expense{
		ID:        s.newID(),
		UserID:    in.UserID,
		Title:     in.Title,
		Amount:    in.Amount,
		Category:  in.Category,
		Date:      in.Date,
		CreatedAt: s.now().UnixMilli(),
	}
	expenses = append(expenses, e)
	if err := writeCollection(ctx, s.blobs, blob.ExpensesKey, expenses); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}
	return e, nil
}

// Update replaces the record whose id matches e.ID. Updating an id that does
// not exist changes nothing and reports success.
func (s *Expenses) Update(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := readCollection[core.Expense](ctx, s.blobs, blob.ExpensesKey)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	for i := range expenses {
		if expenses[i].ID == e.ID {
			expenses[i] = e
			if err := writeCollection(ctx, s.blobs, blob.ExpensesKey, expenses); err != nil {
				return fmt.Errorf("save expenses: %w", err)
			}
			return nil
		}
	}
	return nil
}

// Remove deletes the record with the given id. Removing an absent id is a
// no-op, so calling it twice has the same effect as once.
func (s *Expenses) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := readCollection[core.Expense](ctx, s.blobs, blob.ExpensesKey)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if err := writeCollection(ctx, s.blobs, blob.ExpensesKey, kept); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}

// ListForUser returns the given user's expenses ordered by creation time
// descending. Records created in the same millisecond keep insertion order,
// newest first.
func (s *Expenses) ListForUser(ctx context.Context, userID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := readCollection[core.Expense](ctx, s.blobs, blob.ExpensesKey)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	var out []core.Expense
	for _, e := range expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	// Reverse first so a stable sort breaks CreatedAt ties toward the most
	// recent insertion.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}
