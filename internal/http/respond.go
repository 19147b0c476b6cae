package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"trackmaster/internal/core"
	"trackmaster/internal/store"
)

type errorPayload struct {
	Error string `json:"error"`
}

// errNoChartData marks chart requests over an empty or too-short series.
var errNoChartData = errors.New("not enough data to chart")

// userPayload is the over-the-wire view of a user; the password never
// leaves the server.
type userPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserPayload(u core.User) userPayload {
	return userPayload{ID: u.ID, Username: u.Username, Email: u.Email}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps store and validation sentinels onto HTTP status codes and
// emits the {"error": ...} payload.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Request failed", "error", err)
		// Internal details stay in the log
		writeJSON(w, status, errorPayload{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorPayload{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, errNoChartData):
		return http.StatusNotFound
	case errors.Is(err, store.ErrIncorrectPassword):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrTitleTooLong),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrEmptyUserID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body, capped at 1 MiB.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}
