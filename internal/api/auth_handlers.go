// ABOUTME: Route handlers for registration, login, logout, and profile updates
// ABOUTME: Maps core outcomes to 200/400/401/403 with fixed JSON bodies

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshslice/orderd/internal/auth"
	"github.com/freshslice/orderd/internal/policy"
	"github.com/freshslice/orderd/internal/store"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

// handleRegister creates a new diner account and an active session.
// POST /api/auth
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tok, err := s.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			writeMessage(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, store.ErrEmailTaken):
			writeMessage(w, http.StatusBadRequest, "email already registered")
		default:
			s.logger.Error("registration failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "unable to register")
		}
		s.recordAuthFailure()
		return
	}

	s.recordAuthSuccess()
	writeJSON(w, http.StatusOK, authResponse{User: viewUser(user), Token: tok})
}

// handleLogin authenticates an email/password pair and issues a session.
// PUT /api/auth
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tok, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			writeMessage(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, auth.ErrUnauthorized):
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
		default:
			s.logger.Error("login failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "unable to log in")
		}
		s.recordAuthFailure()
		return
	}

	s.recordAuthSuccess()
	writeJSON(w, http.StatusOK, authResponse{User: viewUser(user), Token: tok})
}

// handleLogout revokes the presented bearer token.
// DELETE /api/auth
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := s.authService.Logout(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.logger.Error("logout failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "unable to log out")
		return
	}

	writeMessage(w, http.StatusOK, "logout successful")
}

// handleUpdateUser changes a user's email and/or password. Self or admin only.
// PUT /api/auth/{userID}
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	targetID := chi.URLParam(r, "userID")

	if !policy.Allowed(identity, policy.ActionUserUpdate, policy.UserResource(targetID)) {
		writeMessage(w, http.StatusForbidden, "forbidden")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.authService.UpdateUser(r.Context(), targetID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "unknown user")
			return
		}
		s.logger.Error("user update failed", "error", err, "user_id", targetID)
		writeMessage(w, http.StatusInternalServerError, "unable to update user")
		return
	}

	writeJSON(w, http.StatusOK, viewUser(user))
}

func (s *Server) recordAuthSuccess() {
	if s.collector != nil {
		s.collector.RecordAuthSuccess()
	}
}

func (s *Server) recordAuthFailure() {
	if s.collector != nil {
		s.collector.RecordAuthFailure()
	}
}
