// ABOUTME: Route handlers for the menu and order placement
// ABOUTME: Orders persist locally first, then report to the factory for fulfillment

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/freshslice/orderd/internal/auth"
	"github.com/freshslice/orderd/internal/factory"
	"github.com/freshslice/orderd/internal/policy"
	"github.com/freshslice/orderd/internal/store"
)

type addMenuItemRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

type createOrderRequest struct {
	FranchiseID string `json:"franchiseId"`
	StoreID     string `json:"storeId"`
	Items       []struct {
		MenuID      string  `json:"menuId"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	} `json:"items"`
}

type createOrderResponse struct {
	Order     orderView `json:"order"`
	JWT       string    `json:"jwt"`
	ReportURL string    `json:"reportUrl,omitempty"`
}

// handleGetMenu returns the full menu. Open to anonymous callers.
// GET /api/order/menu
func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListMenu(r.Context())
	if err != nil {
		s.logger.Error("listing menu failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "unable to list menu")
		return
	}

	writeJSON(w, http.StatusOK, viewMenu(items))
}

// handleAddMenuItem adds an item to the menu and returns the updated menu.
// Admin only.
// PUT /api/order/menu
func (s *Server) handleAddMenuItem(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	if !policy.Allowed(identity, policy.ActionMenuItemCreate, policy.MenuResource()) {
		writeMessage(w, http.StatusForbidden, "unable to add menu item")
		return
	}

	var req addMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeMessage(w, http.StatusBadRequest, "title is required")
		return
	}

	item := &store.MenuItem{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	}
	menu, err := s.store.AddMenuItem(r.Context(), item)
	if err != nil {
		s.logger.Error("adding menu item failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "unable to add menu item")
		return
	}

	writeJSON(w, http.StatusOK, viewMenu(menu))
}

// handleGetOrders lists the caller's own orders.
// GET /api/order
func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	orders, err := s.store.ListUserOrders(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error("listing orders failed", "error", err, "user_id", identity.UserID)
		writeMessage(w, http.StatusInternalServerError, "unable to list orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dinerId": identity.UserID,
		"orders":  viewOrders(orders),
	})
}

// handleCreateOrder records an order for the caller and reports it to the
// factory. The order is stamped with the authenticated user id; any user id
// in the request body is ignored. A factory failure still leaves the order
// persisted locally.
// POST /api/order
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	start := time.Now()

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "items are required")
		return
	}

	order := &store.Order{
		ID:          uuid.New().String(),
		UserID:      identity.UserID,
		FranchiseID: req.FranchiseID,
		StoreID:     req.StoreID,
	}
	var total float64
	for _, item := range req.Items {
		order.Items = append(order.Items, store.OrderItem{
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
		total += item.Price
	}

	if err := s.store.CreateOrder(r.Context(), order); err != nil {
		s.logger.Error("creating order failed", "error", err, "user_id", identity.UserID)
		writeMessage(w, http.StatusInternalServerError, "unable to create order")
		return
	}

	if s.factory == nil {
		s.recordSale(order, total, start)
		writeJSON(w, http.StatusOK, createOrderResponse{Order: viewOrder(order)})
		return
	}

	diner, err := s.store.GetUser(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error("loading diner for fulfillment failed", "error", err, "user_id", identity.UserID)
		writeMessage(w, http.StatusInternalServerError, "unable to create order")
		return
	}

	ack, err := s.factory.Fulfill(r.Context(), factory.Diner{ID: diner.ID, Name: diner.Name, Email: diner.Email}, order)
	if err != nil {
		if s.collector != nil {
			s.collector.RecordOrderFailure()
		}
		if errors.Is(err, factory.ErrFulfillment) {
			// The order stays persisted; the failure body echoes the
			// order in the request's shape, without the stored id.
			echo := viewOrder(order)
			echo.ID = ""
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Failed to fulfill order at factory",
				"order":   echo,
			})
			return
		}
		s.logger.Error("order fulfillment failed", "error", err, "order_id", order.ID)
		writeMessage(w, http.StatusInternalServerError, "unable to create order")
		return
	}

	s.recordSale(order, total, start)
	writeJSON(w, http.StatusOK, createOrderResponse{
		Order:     viewOrder(order),
		JWT:       ack.JWT,
		ReportURL: ack.ReportURL,
	})
}

func (s *Server) recordSale(order *store.Order, total float64, start time.Time) {
	if s.collector == nil {
		return
	}
	s.collector.RecordSale(len(order.Items), total)
	s.collector.RecordOrderLatency(time.Since(start))
}
