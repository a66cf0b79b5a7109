// Package inventory talks to the external stock system that holds item
// reservations for placed orders.
package inventory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// HTTPStockClient implements ports.InventoryService against the stock
// system's REST API. Reservations are keyed by order id, so both calls are
// idempotent on the remote side.
type HTTPStockClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStockClient creates a client for the stock system at baseURL.
func NewHTTPStockClient(baseURL string) *HTTPStockClient {
	return &HTTPStockClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Reserve places a stock reservation for the order.
func (c *HTTPStockClient) Reserve(ctx context.Context, orderID kernel.UUID) error {
	return c.call(ctx, http.MethodPut, orderID)
}

// Release returns the order's reservation to free stock.
func (c *HTTPStockClient) Release(ctx context.Context, orderID kernel.UUID) error {
	return c.call(ctx, http.MethodDelete, orderID)
}

func (c *HTTPStockClient) call(ctx context.Context, method string, orderID kernel.UUID) error {
	url := fmt.Sprintf("%s/api/v1/reservations/%s", c.baseURL, orderID.String())
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build stock request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("stock system unreachable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stock system rejected %s for order %s: status %d",
			method, orderID.String(), resp.StatusCode)
	}

	return nil
}

// NopStockClient accepts every reservation without a remote call. Used for
// local runs when no stock system is configured.
type NopStockClient struct{}

// Reserve accepts the reservation.
func (NopStockClient) Reserve(context.Context, kernel.UUID) error { return nil }

// Release accepts the release.
func (NopStockClient) Release(context.Context, kernel.UUID) error { return nil }
