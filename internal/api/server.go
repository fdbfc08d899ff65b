// ABOUTME: HTTP API server wiring routes to the auth core and the store
// ABOUTME: Route handlers translate core outcomes into 401/403/400 responses

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshslice/orderd/internal/auth"
	"github.com/freshslice/orderd/internal/factory"
	"github.com/freshslice/orderd/internal/metrics"
	"github.com/freshslice/orderd/internal/store"
)

// Store is the persistence surface the API handlers need.
// *store.SQLiteStore satisfies it.
type Store interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)

	CreateFranchise(ctx context.Context, franchise *store.Franchise) error
	GetFranchise(ctx context.Context, id string) (*store.Franchise, error)
	ListFranchises(ctx context.Context) ([]*store.Franchise, error)
	ListUserFranchises(ctx context.Context, userID string) ([]*store.Franchise, error)
	DeleteFranchise(ctx context.Context, id string) error
	CreateStore(ctx context.Context, ps *store.PizzaStore) error
	DeleteStore(ctx context.Context, franchiseID, storeID string) error

	ListMenu(ctx context.Context) ([]*store.MenuItem, error)
	AddMenuItem(ctx context.Context, item *store.MenuItem) ([]*store.MenuItem, error)

	CreateOrder(ctx context.Context, order *store.Order) error
	ListUserOrders(ctx context.Context, userID string) ([]*store.Order, error)
}

// FactoryClient reports created orders to the external pizza factory.
// *factory.Client satisfies it.
type FactoryClient interface {
	Fulfill(ctx context.Context, diner factory.Diner, order *store.Order) (*factory.FulfillResponse, error)
}

// Server holds the API's collaborators and exposes the route tree.
type Server struct {
	authService *auth.Service
	gate        *auth.Gate
	store       Store
	factory     FactoryClient
	collector   *metrics.Collector
	limiter     *ipLimiter
	logger      *slog.Logger
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithFactory sets the order fulfillment client.
func WithFactory(client FactoryClient) Option {
	return func(s *Server) { s.factory = client }
}

// WithMetrics sets the metrics collector and enables the request middleware.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Server) { s.collector = collector }
}

// WithCredentialRateLimit throttles register/login per client IP.
func WithCredentialRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) { s.limiter = newIPLimiter(perSecond, burst) }
}

// NewServer creates the API server over its collaborators.
func NewServer(authService *auth.Service, gate *auth.Gate, st Store, opts ...Option) *Server {
	s := &Server{
		authService: authService,
		gate:        gate,
		store:       st,
		logger:      slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the full API route tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	if s.collector != nil {
		r.Use(s.collector.Middleware)
	}

	r.Route("/api/auth", func(r chi.Router) {
		credentials := r.With(s.credentialLimit)
		credentials.Post("/", s.handleRegister)
		credentials.Put("/", s.handleLogin)
		r.Delete("/", s.handleLogout)
		r.With(auth.RequireAuth(s.gate)).Put("/{userID}", s.handleUpdateUser)
	})

	r.Route("/api/franchise", func(r chi.Router) {
		r.With(auth.OptionalAuth(s.gate)).Get("/", s.handleListFranchises)
		r.With(auth.RequireAuth(s.gate)).Get("/{userID}", s.handleListUserFranchises)
		r.With(auth.RequireAuth(s.gate)).Post("/", s.handleCreateFranchise)
		r.With(auth.RequireAuth(s.gate)).Delete("/{franchiseID}", s.handleDeleteFranchise)
		r.With(auth.RequireAuth(s.gate)).Post("/{franchiseID}/store", s.handleCreateStore)
		r.With(auth.RequireAuth(s.gate)).Delete("/{franchiseID}/store/{storeID}", s.handleDeleteStore)
	})

	r.Route("/api/order", func(r chi.Router) {
		r.Get("/menu", s.handleGetMenu)
		r.With(auth.RequireAuth(s.gate)).Put("/menu", s.handleAddMenuItem)
		r.With(auth.RequireAuth(s.gate)).Get("/", s.handleGetOrders)
		r.With(auth.RequireAuth(s.gate)).Post("/", s.handleCreateOrder)
	})

	return r
}
