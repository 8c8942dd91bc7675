package domain

import "github.com/shopspring/decimal"

type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest deliberately carries no prices; the backend resolves them.
type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

type OrderResponseItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type OrderResponse struct {
	ID        int64               `json:"id"`
	CreatedAt Timestamp           `json:"createdAt"`
	Total     decimal.Decimal     `json:"total"`
	Items     []OrderResponseItem `json:"items"`
}

// NewOrderRequest builds the order payload from the cart lines, keeping cart order.
func NewOrderRequest(items []CartLineItem) OrderRequest {
	req := OrderRequest{Items: make([]OrderItem, len(items))}
	for i, item := range items {
		req.Items[i] = OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return req
}
