package cart

import (
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/shopspring/decimal"
)

// State is the whole cart as seen by the UI. Items keep insertion order.
type State struct {
	Items       []domain.CartLineItem `json:"items"`
	IsOpen      bool                  `json:"isOpen"`
	IsLoading   bool                  `json:"isLoading"`
	LastError   string                `json:"lastError,omitempty"`
	StockErrors []domain.StockError   `json:"stockErrors"`
}

// NewState returns an empty, closed cart.
func NewState() State {
	return State{
		Items:       []domain.CartLineItem{},
		StockErrors: []domain.StockError{},
	}
}

// Find returns the line for productID.
func (s State) Find(productID int64) (domain.CartLineItem, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.Items[i], true
	}
	return domain.CartLineItem{}, false
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s State) Total() decimal.Decimal {
	return Total(s.Items)
}

func (s State) ItemCount() int {
	return ItemCount(s.Items)
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	c := s
	c.Items = append([]domain.CartLineItem{}, s.Items...)
	c.StockErrors = append([]domain.StockError{}, s.StockErrors...)
	return c
}

func (s State) indexOf(productID int64) int {
	for i, item := range s.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
