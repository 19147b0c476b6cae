package http

import (
	"net/http"
	"strings"

	"trackmaster/internal/store"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	User *userPayload `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorPayload{Error: "username, email and password are required"})
		return
	}

	user, err := s.tracker.Signup(r.Context(), store.Candidate{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: req.Password,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserPayload(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return
	}

	user, err := s.tracker.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Logout(r.Context()); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user, ok, err := s.tracker.CurrentUser(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	p := toUserPayload(user)
	writeJSON(w, http.StatusOK, sessionResponse{User: &p})
}
