// Package worker consumes expense change events and appends them to a
// local JSONL backup file, giving an audit trail that survives wipes of
// the primary data backend.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"trackmaster/internal/amqp"
	applog "trackmaster/internal/log"
)

// BackupWorker appends expense events to an append-only JSONL file
type BackupWorker struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewBackupWorker opens (or creates) the backup file in append mode
func NewBackupWorker(path string) (*BackupWorker, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create backup directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open backup file: %w", err)
	}

	return &BackupWorker{file: f, path: path}, nil
}

// HandleEvent appends one expense event as a JSON line.
// Returning an error makes the consumer requeue the message.
func (w *BackupWorker) HandleEvent(ctx context.Context, event *amqp.ExpenseEvent) error {
	line := struct {
		*amqp.ExpenseEvent
		RecordedAt int64 `json:"recordedAt"`
	}{
		ExpenseEvent: event,
		RecordedAt:   time.Now().UnixMilli(),
	}

	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("marshal backup record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append backup record: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync backup file: %w", err)
	}

	slog.InfoContext(ctx, "Backed up expense event",
		applog.FieldAction, event.Action,
		applog.FieldExpenseID, event.ExpenseID,
		"path", w.path)

	return nil
}

// Close flushes and closes the backup file
func (w *BackupWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
