package store

import (
	"context"
	"testing"

	"trackmaster/internal/blob"
	"trackmaster/internal/core"
)

func TestSessionStartCurrentEnd(t *testing.T) {
	blobs := blob.NewMemoryStore()
	s := NewSession(blobs)
	ctx := context.Background()

	if _, ok, err := s.Current(ctx); err != nil || ok {
		t.Fatalf("expected no session: ok=%v err=%v", ok, err)
	}

	user := core.User{ID: "u1", Username: "Bob", Email: "bob@x.com", PasswordHash: "p"}
	if err := s.Start(ctx, user); err != nil {
		t.Fatalf("start: %v", err)
	}

	got, ok, err := s.Current(ctx)
	if err != nil || !ok {
		t.Fatalf("current: ok=%v err=%v", ok, err)
	}
	if got != user {
		t.Fatalf("got %+v, want %+v", got, user)
	}

	if err := s.End(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, ok, _ := s.Current(ctx); ok {
		t.Fatal("session still present after end")
	}
	// Ending again is a no-op.
	if err := s.End(ctx); err != nil {
		t.Fatalf("second end: %v", err)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	blobs := blob.NewMemoryStore()
	ctx := context.Background()
	user := core.User{ID: "u1", Username: "Bob", Email: "bob@x.com", PasswordHash: "p"}

	if err := NewSession(blobs).Start(ctx, user); err != nil {
		t.Fatalf("start: %v", err)
	}

	// A fresh holder over the same backend simulates an application restart.
	got, ok, err := NewSession(blobs).Current(ctx)
	if err != nil || !ok {
		t.Fatalf("current after restart: ok=%v err=%v", ok, err)
	}
	if got != user {
		t.Fatalf("got %+v, want %+v", got, user)
	}
}

func TestSessionReplacedUnconditionally(t *testing.T) {
	s := NewSession(blob.NewMemoryStore())
	ctx := context.Background()

	if err := s.Start(ctx, core.User{ID: "u1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(ctx, core.User{ID: "u2"}); err != nil {
		t.Fatalf("second start: %v", err)
	}
	got, _, _ := s.Current(ctx)
	if got.ID != "u2" {
		t.Fatalf("expected replacement session, got %+v", got)
	}
}

func TestSessionMalformedBlobReadsAsAbsent(t *testing.T) {
	blobs := blob.NewMemoryStore()
	ctx := context.Background()
	if err := blobs.Put(ctx, blob.SessionKey, []byte(`garbage`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	_, ok, err := NewSession(blobs).Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if ok {
		t.Fatal("malformed session should read as absent")
	}
}
