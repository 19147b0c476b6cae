package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"trackmaster/internal/blob"
	"trackmaster/internal/core"
)

// Session tracks the single currently-authenticated user. It stores a copy of
// the user record, so later changes to the identity collection are not
// reflected in an active session.
type Session struct {
	mu    sync.Mutex
	blobs blob.Store
}

func NewSession(blobs blob.Store) *Session {
	return &Session{blobs: blobs}
}

// Start persists user as the active session, unconditionally replacing any
// previous one.
func (s *Session) Start(ctx context.Context, user core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.blobs.Put(ctx, blob.SessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// End clears the active session. Ending when none exists is a no-op.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blobs.Delete(ctx, blob.SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the persisted session snapshot. A missing or unparseable
// blob reads as "no session".
func (s *Session) Current(ctx context.Context) (core.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.blobs.Get(ctx, blob.SessionKey)
	if err != nil {
		return core.User{}, false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return core.User{}, false, nil
	}

	var user core.User
	if err := json.Unmarshal(data, &user); err != nil {
		slog.WarnContext(ctx, "Discarding malformed session blob", "error", err)
		return core.User{}, false, nil
	}
	return user, true, nil
}
