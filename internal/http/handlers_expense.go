package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"trackmaster/internal/core"
)

// requireUserID reads the userId query parameter shared by the listing and
// report endpoints. There are no cookies or tokens; the session is
// process-wide and the client passes the id it got at login.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorPayload{Error: "userId is required"})
		return "", false
	}
	return userID, true
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	expenses, err := s.tracker.Expenses(r.Context(), userID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in core.ExpenseInput
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}

	expense, err := s.tracker.AddExpense(r.Context(), in)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	s.invalidateReports(expense.UserID)
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeBody(r, &e); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	// The path id wins over whatever the body says
	e.ID = chi.URLParam(r, "id")

	if err := s.tracker.UpdateExpense(r.Context(), e); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	s.invalidateReports(e.UserID)
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.tracker.DeleteExpense(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	// The record is gone, so the owner is unknown here. A delete is rare
	// enough that dropping every user's cached reports is fine.
	s.reportCache.DeletePrefix("")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpenseHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	expenses, err := s.tracker.Expenses(r.Context(), userID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, core.GroupByDate(expenses))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Categories())
}
