package domain

import "github.com/shopspring/decimal"

// CartLineItem is one row of the cart. UnitPrice is frozen when the product
// is added; StockSnapshot is the ceiling the quantity may reach.
type CartLineItem struct {
	ProductID     int64           `json:"productId"`
	ProductName   string          `json:"productName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      int             `json:"quantity"`
	StockSnapshot int             `json:"stockSnapshot"`
	ImageURL      string          `json:"imageUrl,omitempty"`
}

// Subtotal returns UnitPrice * Quantity.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type StockError struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Available   int    `json:"available"`
}
