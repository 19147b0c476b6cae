package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"trackmaster/internal/blob"
	"trackmaster/internal/core"
)

var (
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrAccountNotFound   = errors.New("account not found, please sign up first")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Candidate carries the caller-supplied fields of a signup.
type Candidate struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Identity holds the registered-user collection and enforces the uniqueness
// and credential rules.
type Identity struct {
	mu    sync.Mutex
	blobs blob.Store
	newID func() string
}

func NewIdentity(blobs blob.Store, newID func() string) *Identity {
	return &Identity{blobs: blobs, newID: newID}
}

// normalize prepares a value for comparison: trimmed and lower-cased.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register stores a new user. Email collisions are reported before username
// collisions. Username and email are stored trimmed but otherwise untouched.
func (s *Identity) Register(ctx context.Context, c Candidate) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[core.User](ctx, s.blobs, blob.UsersKey)
	if err != nil {
		return core.User{}, fmt.Errorf("load users: %w", err)
	}

	email := normalize(c.Email)
	username := normalize(c.Username)
	for _, u := range users {
		if normalize(u.Email) == email {
			return core.User{}, ErrDuplicateEmail
		}
	}
	for _, u := range users {
		if normalize(u.Username) == username {
			return core.User{}, ErrDuplicateUsername
		}
	}

	user := core.User{
		ID:           s.newID(),
		Username:     strings.TrimSpace(c.Username),
		Email:        strings.TrimSpace(c.Email),
		PasswordHash: c.PasswordHash,
	}
	users = append(users, user)
	if err := writeCollection(ctx, s.blobs, blob.UsersKey, users); err != nil {
		return core.User{}, fmt.Errorf("save users: %w", err)
	}
	return user, nil
}

// Authenticate matches identifier against email or username, trimmed and
// case-insensitively. The password check is exact: case-sensitive, untrimmed.
func (s *Identity) Authenticate(ctx context.Context, identifier, password string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[core.User](ctx, s.blobs, blob.UsersKey)
	if err != nil {
		return core.User{}, fmt.Errorf("load users: %w", err)
	}

	id := normalize(identifier)
	for _, u := range users {
		if normalize(u.Email) == id || normalize(u.Username) == id {
			if u.PasswordHash != password {
				return core.User{}, ErrIncorrectPassword
			}
			return u, nil
		}
	}
	return core.User{}, ErrAccountNotFound
}

// ListAll returns every registered user in storage order.
func (s *Identity) ListAll(ctx context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[core.User](ctx, s.blobs, blob.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}
