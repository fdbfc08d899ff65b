// ABOUTME: HTTP client reporting created orders to the external pizza factory
// ABOUTME: A single bounded call with a request timeout and no retry

package factory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/freshslice/orderd/internal/store"
)

// ErrFulfillment is returned when the factory rejects an order or cannot be
// reached. The order itself is already persisted by then.
var ErrFulfillment = errors.New("failed to fulfill order at factory")

const defaultTimeout = 10 * time.Second

// Diner identifies the ordering user to the factory.
type Diner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FulfillResponse is the factory's acknowledgement of an order.
type FulfillResponse struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl,omitempty"`
}

// Client calls the pizza factory's order endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a factory client. A non-positive timeout falls back to
// ten seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "factory"),
	}
}

// Fulfill reports an order to the factory and returns its acknowledgement.
// Transport failures and non-2xx responses both map to ErrFulfillment.
func (c *Client) Fulfill(ctx context.Context, diner Diner, order *store.Order) (*FulfillResponse, error) {
	payload := struct {
		Diner Diner        `json:"diner"`
		Order *store.Order `json:"order"`
	}{Diner: diner, Order: order}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/order", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building factory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("factory unreachable", "error", err)
		return nil, ErrFulfillment
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("factory rejected order", "status", resp.StatusCode, "order_id", order.ID)
		return nil, ErrFulfillment
	}

	var ack FulfillResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		c.logger.Warn("factory response undecodable", "error", err)
		return nil, ErrFulfillment
	}

	c.logger.Info("order fulfilled", "order_id", order.ID)
	return &ack, nil
}
