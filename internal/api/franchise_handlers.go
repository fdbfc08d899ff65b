// ABOUTME: Route handlers for franchise and store management
// ABOUTME: Franchise create/delete is admin-only; store management extends to franchise admins

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshslice/orderd/internal/auth"
	"github.com/freshslice/orderd/internal/policy"
	"github.com/freshslice/orderd/internal/store"
)

type createFranchiseRequest struct {
	Name   string `json:"name"`
	Admins []struct {
		Email string `json:"email"`
	} `json:"admins"`
}

type createStoreRequest struct {
	Name string `json:"name"`
}

// handleListFranchises lists all franchises. Open to anonymous callers.
// GET /api/franchise
func (s *Server) handleListFranchises(w http.ResponseWriter, r *http.Request) {
	franchises, err := s.store.ListFranchises(r.Context())
	if err != nil {
		s.logger.Error("listing franchises failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "unable to list franchises")
		return
	}

	writeJSON(w, http.StatusOK, viewFranchises(franchises))
}

// handleListUserFranchises lists the franchises a user administers. Callers
// other than the user or an admin get an empty list rather than an error.
// GET /api/franchise/{userID}
func (s *Server) handleListUserFranchises(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	targetID := chi.URLParam(r, "userID")

	if identity.UserID != targetID && !identity.IsAdmin() {
		writeJSON(w, http.StatusOK, []franchiseView{})
		return
	}

	franchises, err := s.store.ListUserFranchises(r.Context(), targetID)
	if err != nil {
		s.logger.Error("listing user franchises failed", "error", err, "user_id", targetID)
		writeMessage(w, http.StatusInternalServerError, "unable to list franchises")
		return
	}

	writeJSON(w, http.StatusOK, viewFranchises(franchises))
}

// handleCreateFranchise creates a franchise, resolving its admins by email.
// POST /api/franchise
func (s *Server) handleCreateFranchise(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	if !policy.Allowed(identity, policy.ActionFranchiseCreate, policy.FranchiseResource(nil)) {
		writeMessage(w, http.StatusForbidden, "unable to create a franchise")
		return
	}

	var req createFranchiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	franchise := &store.Franchise{
		ID:   uuid.New().String(),
		Name: req.Name,
	}
	for _, admin := range req.Admins {
		user, err := s.store.GetUserByEmail(r.Context(), admin.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "unknown user")
				return
			}
			s.logger.Error("resolving franchise admin failed", "error", err, "email", admin.Email)
			writeMessage(w, http.StatusInternalServerError, "unable to create a franchise")
			return
		}
		franchise.Admins = append(franchise.Admins, store.FranchiseAdmin{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
		})
	}

	if err := s.store.CreateFranchise(r.Context(), franchise); err != nil {
		s.logger.Error("creating franchise failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "unable to create a franchise")
		return
	}

	writeJSON(w, http.StatusOK, viewFranchise(franchise))
}

// handleDeleteFranchise removes a franchise with its stores.
// DELETE /api/franchise/{franchiseID}
func (s *Server) handleDeleteFranchise(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	if !policy.Allowed(identity, policy.ActionFranchiseDelete, policy.FranchiseResource(nil)) {
		writeMessage(w, http.StatusForbidden, "unable to delete a franchise")
		return
	}

	franchiseID := chi.URLParam(r, "franchiseID")
	if err := s.store.DeleteFranchise(r.Context(), franchiseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "unknown franchise")
			return
		}
		s.logger.Error("deleting franchise failed", "error", err, "franchise_id", franchiseID)
		writeMessage(w, http.StatusInternalServerError, "unable to delete a franchise")
		return
	}

	writeMessage(w, http.StatusOK, "franchise deleted")
}

// handleCreateStore adds a store to a franchise. Allowed for admins and the
// franchise's own admins.
// POST /api/franchise/{franchiseID}/store
func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	franchiseID := chi.URLParam(r, "franchiseID")

	franchise, err := s.store.GetFranchise(r.Context(), franchiseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "unknown franchise")
			return
		}
		s.logger.Error("loading franchise failed", "error", err, "franchise_id", franchiseID)
		writeMessage(w, http.StatusInternalServerError, "unable to create a store")
		return
	}

	if !policy.Allowed(identity, policy.ActionStoreCreate, policy.StoreResource(franchise.AdminIDs())) {
		writeMessage(w, http.StatusForbidden, "unable to create a store")
		return
	}

	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	pizzaStore := &store.PizzaStore{
		ID:          uuid.New().String(),
		FranchiseID: franchise.ID,
		Name:        req.Name,
	}
	if err := s.store.CreateStore(r.Context(), pizzaStore); err != nil {
		s.logger.Error("creating store failed", "error", err, "franchise_id", franchiseID)
		writeMessage(w, http.StatusInternalServerError, "unable to create a store")
		return
	}

	writeJSON(w, http.StatusOK, storeView{ID: pizzaStore.ID, Name: pizzaStore.Name})
}

// handleDeleteStore removes a store from a franchise. Same access rule as
// store creation.
// DELETE /api/franchise/{franchiseID}/store/{storeID}
func (s *Server) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	franchiseID := chi.URLParam(r, "franchiseID")
	storeID := chi.URLParam(r, "storeID")

	franchise, err := s.store.GetFranchise(r.Context(), franchiseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "unknown franchise")
			return
		}
		s.logger.Error("loading franchise failed", "error", err, "franchise_id", franchiseID)
		writeMessage(w, http.StatusInternalServerError, "unable to delete a store")
		return
	}

	if !policy.Allowed(identity, policy.ActionStoreDelete, policy.StoreResource(franchise.AdminIDs())) {
		writeMessage(w, http.StatusForbidden, "unable to delete a store")
		return
	}

	if err := s.store.DeleteStore(r.Context(), franchiseID, storeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "unknown store")
			return
		}
		s.logger.Error("deleting store failed", "error", err, "store_id", storeID)
		writeMessage(w, http.StatusInternalServerError, "unable to delete a store")
		return
	}

	writeMessage(w, http.StatusOK, "store deleted")
}
