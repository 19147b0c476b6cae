// Package services exposes the data access facade the presentation layer
// talks to: one method per store operation, id generation and the optional
// artificial latency that makes a local store feel networked.
package services

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"trackmaster/internal/amqp"
	"trackmaster/internal/blob"
	"trackmaster/internal/core"
	applog "trackmaster/internal/log"
	"trackmaster/internal/store"
)

// EventPublisher receives expense change events. Publishing is best effort:
// a publish failure never fails the operation that triggered it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEvent) error
}

// Tracker combines the identity store, session holder and expense store
// behind one API. One Tracker per running application.
type Tracker struct {
	identity  *store.Identity
	session   *store.Session
	expenses  *store.Expenses
	publisher EventPublisher
	delay     time.Duration
}

type Option func(*Tracker)

// WithDelay configures the artificial per-call latency. Zero (the default)
// disables it; it exists only to emulate network round-trips.
func WithDelay(d time.Duration) Option {
	return func(t *Tracker) { t.delay = d }
}

// WithPublisher attaches an expense change event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

func New(blobs blob.Store, opts ...Option) *Tracker {
	t := &Tracker{
		identity: store.NewIdentity(blobs, NewID),
		session:  store.NewSession(blobs),
		expenses: store.NewExpenses(blobs, NewID),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewID returns a collision-resistant opaque id: a random UUID, or a
// low-entropy time+random string when the random source is unavailable.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + strconv.FormatInt(rand.Int63(), 36)
}

// pause applies the configured artificial latency, honoring cancellation.
func (t *Tracker) pause(ctx context.Context) error {
	if t.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Signup registers a new account.
func (t *Tracker) Signup(ctx context.Context, c store.Candidate) (core.User, error) {
	if err := t.pause(ctx); err != nil {
		return core.User{}, err
	}
	return t.identity.Register(ctx, c)
}

// Login authenticates by username or email and starts the session.
func (t *Tracker) Login(ctx context.Context, identifier, password string) (core.User, error) {
	if err := t.pause(ctx); err != nil {
		return core.User{}, err
	}
	user, err := t.identity.Authenticate(ctx, identifier, password)
	if err != nil {
		return core.User{}, err
	}
	if err := t.session.Start(ctx, user); err != nil {
		return core.User{}, err
	}
	return user, nil
}

// Logout ends the session. Logging out without a session is a no-op.
func (t *Tracker) Logout(ctx context.Context) error {
	return t.session.End(ctx)
}

// CurrentUser returns the session snapshot, if any.
func (t *Tracker) CurrentUser(ctx context.Context) (core.User, bool, error) {
	return t.session.Current(ctx)
}

// Expenses lists the given user's expenses, newest first.
func (t *Tracker) Expenses(ctx context.Context, userID string) ([]core.Expense, error) {
	if err := t.pause(ctx); err != nil {
		return nil, err
	}
	return t.expenses.ListForUser(ctx, userID)
}

// AddExpense records a new expense and publishes a created event.
func (t *Tracker) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := t.pause(ctx); err != nil {
		return core.Expense{}, err
	}
	e, err := t.expenses.Add(ctx, in)
	if err != nil {
		return core.Expense{}, err
	}
	t.publish(ctx, amqp.NewExpenseEvent(amqp.ActionCreated, e))
	return e, nil
}

// UpdateExpense replaces the expense with a matching id and publishes an
// updated event. Updating a missing id reports success and publishes nothing
// new beyond the updated event.
func (t *Tracker) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := t.pause(ctx); err != nil {
		return err
	}
	if err := t.expenses.Update(ctx, e); err != nil {
		return err
	}
	t.publish(ctx, amqp.NewExpenseEvent(amqp.ActionUpdated, e))
	return nil
}

// DeleteExpense removes the expense with the given id and publishes a
// deleted event. Deleting a missing id reports success.
func (t *Tracker) DeleteExpense(ctx context.Context, id string) error {
	if err := t.pause(ctx); err != nil {
		return err
	}
	if err := t.expenses.Remove(ctx, id); err != nil {
		return err
	}
	t.publish(ctx, amqp.NewExpenseDeletedEvent(id))
	return nil
}

func (t *Tracker) publish(ctx context.Context, msg *amqp.ExpenseEvent) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.PublishExpenseEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldAction, msg.Action,
			applog.FieldExpenseID, msg.ExpenseID,
			applog.FieldError, err)
	}
}
