package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/efojunior25/Notrya-Catalogo/internal/patterns"
)

const IdempotencyHeader = "Idempotency-Key"

// StockConflictError is a 409 from POST /orders: at least one line asks for
// more units than the backend has.
type StockConflictError struct {
	StockErrors []domain.StockError
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.StockErrors))
}

// OrdersClient submits orders to the backend.
type OrdersClient struct {
	api     *apiclient.Client
	breaker *patterns.CircuitBreaker[domain.OrderResponse]
}

func NewOrdersClient(api *apiclient.Client) *OrdersClient {
	return &OrdersClient{
		api: api,
		breaker: patterns.NewCircuitBreaker[domain.OrderResponse]("orders", func(err error) bool {
			var conflict *StockConflictError
			return err == nil || errors.As(err, &conflict) || apiclient.IsClientError(err)
		}),
	}
}

// PlaceOrder posts req. A 409 is returned as *StockConflictError; any other
// non-2xx as *apiclient.APIError.
func (c *OrdersClient) PlaceOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (domain.OrderResponse, error) {
	return c.breaker.Execute(func() (domain.OrderResponse, error) {
		var order domain.OrderResponse
		resp, err := c.api.R(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader(IdempotencyHeader, idempotencyKey).
			SetBody(req).
			SetResult(&order).
			Post("/orders")
		if err != nil {
			return domain.OrderResponse{}, fmt.Errorf("failed to submit order: %w", err)
		}

		if resp.StatusCode() == http.StatusConflict {
			return domain.OrderResponse{}, &StockConflictError{StockErrors: parseStockErrors(resp.Body())}
		}
		if err := apiclient.CheckResponse(resp); err != nil {
			return domain.OrderResponse{}, err
		}
		return order, nil
	})
}

// parseStockErrors accepts a bare array or an object carrying the array
// under "stockErrors" or "errors". Anything else yields an empty list.
func parseStockErrors(body []byte) []domain.StockError {
	var list []domain.StockError
	if err := json.Unmarshal(body, &list); err == nil {
		if list == nil {
			return []domain.StockError{}
		}
		return list
	}

	var wrapped struct {
		StockErrors []domain.StockError `json:"stockErrors"`
		Errors      []domain.StockError `json:"errors"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if len(wrapped.StockErrors) > 0 {
			return wrapped.StockErrors
		}
		if len(wrapped.Errors) > 0 {
			return wrapped.Errors
		}
	}
	return []domain.StockError{}
}
