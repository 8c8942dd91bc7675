package cart

import "github.com/efojunior25/Notrya-Catalogo/internal/domain"

// transition is the result of applying one action.
type transition struct {
	state        State
	itemsChanged bool
	rejected     bool
}

// Reduce applies action to state and returns the next state. It never
// mutates state: slices are copied before any change. Rejected actions
// return state with LastError set and everything else unchanged.
func Reduce(state State, action Action) State {
	return reduce(state, action).state
}

func reduce(s State, action Action) transition {
	switch a := action.(type) {
	case AddItem:
		return addItem(s, a)
	case RemoveItem:
		return removeItem(s, a)
	case RemoveItemCompletely:
		return removeLine(s, a.ProductID)
	case UpdateQuantity:
		return updateQuantity(s, a)
	case UpdateItemStock:
		return updateItemStock(s, a)
	case Clear:
		if s.IsLoading {
			return reject(s, MsgCheckoutInProgress)
		}
		s.Items = []domain.CartLineItem{}
		s.LastError = ""
		s.StockErrors = []domain.StockError{}
		return transition{state: s, itemsChanged: true}
	case ToggleOpen:
		s.IsOpen = !s.IsOpen
		return transition{state: s}
	case OpenCart:
		s.IsOpen = true
		return transition{state: s}
	case CloseCart:
		s.IsOpen = false
		return transition{state: s}
	case ClearError:
		s.LastError = ""
		s.StockErrors = []domain.StockError{}
		return transition{state: s}
	case Load:
		s.Items = sanitize(a.Items)
		return transition{state: s, itemsChanged: true}
	case CheckoutStarted:
		s.IsLoading = true
		s.LastError = ""
		s.StockErrors = []domain.StockError{}
		return transition{state: s}
	case CheckoutSucceeded:
		s.Items = []domain.CartLineItem{}
		s.IsLoading = false
		s.IsOpen = false
		s.LastError = ""
		s.StockErrors = []domain.StockError{}
		return transition{state: s, itemsChanged: true}
	case CheckoutFailed:
		s.IsLoading = false
		s.LastError = a.Message
		s.StockErrors = append([]domain.StockError{}, a.StockErrors...)
		return transition{state: s}
	default:
		return transition{state: s}
	}
}

func addItem(s State, a AddItem) transition {
	quantity := a.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return reject(s, MsgInvalidQuantity)
	}

	i := s.indexOf(a.Product.ID)
	if i < 0 {
		if a.Product.Stock <= 0 {
			return reject(s, MsgOutOfStock)
		}
		if quantity > a.Product.Stock {
			return reject(s, MsgInsufficientUnits)
		}
		items := make([]domain.CartLineItem, len(s.Items), len(s.Items)+1)
		copy(items, s.Items)
		s.Items = append(items, domain.CartLineItem{
			ProductID:     a.Product.ID,
			ProductName:   a.Product.Name,
			UnitPrice:     a.Product.Price,
			Quantity:      quantity,
			StockSnapshot: a.Product.Stock,
			ImageURL:      a.Product.ImageURL,
		})
		s.LastError = ""
		return transition{state: s, itemsChanged: true}
	}

	line := s.Items[i]
	if quantity > line.StockSnapshot-line.Quantity {
		return reject(s, MsgInsufficientUnits)
	}
	line.Quantity += quantity
	s.Items = replaceLine(s.Items, i, line)
	s.LastError = ""
	return transition{state: s, itemsChanged: true}
}

func removeItem(s State, a RemoveItem) transition {
	quantity := a.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return reject(s, MsgInvalidQuantity)
	}

	i := s.indexOf(a.ProductID)
	if i < 0 {
		return transition{state: s}
	}
	line := s.Items[i]
	if quantity >= line.Quantity {
		return removeLine(s, a.ProductID)
	}
	line.Quantity -= quantity
	s.Items = replaceLine(s.Items, i, line)
	return transition{state: s, itemsChanged: true}
}

func updateQuantity(s State, a UpdateQuantity) transition {
	if a.Quantity <= 0 {
		return removeLine(s, a.ProductID)
	}
	i := s.indexOf(a.ProductID)
	if i < 0 {
		return transition{state: s}
	}
	line := s.Items[i]
	if a.Quantity > line.StockSnapshot {
		return reject(s, MsgInsufficientUnits)
	}
	line.Quantity = a.Quantity
	s.Items = replaceLine(s.Items, i, line)
	s.LastError = ""
	return transition{state: s, itemsChanged: true}
}

func updateItemStock(s State, a UpdateItemStock) transition {
	if a.Stock <= 0 {
		return removeLine(s, a.ProductID)
	}
	i := s.indexOf(a.ProductID)
	if i < 0 {
		return transition{state: s}
	}
	line := s.Items[i]
	line.StockSnapshot = a.Stock
	if line.Quantity > a.Stock {
		line.Quantity = a.Stock
	}
	s.Items = replaceLine(s.Items, i, line)
	return transition{state: s, itemsChanged: true}
}

func removeLine(s State, productID int64) transition {
	i := s.indexOf(productID)
	if i < 0 {
		return transition{state: s}
	}
	items := make([]domain.CartLineItem, 0, len(s.Items)-1)
	items = append(items, s.Items[:i]...)
	s.Items = append(items, s.Items[i+1:]...)
	return transition{state: s, itemsChanged: true}
}

func replaceLine(items []domain.CartLineItem, i int, line domain.CartLineItem) []domain.CartLineItem {
	out := make([]domain.CartLineItem, len(items))
	copy(out, items)
	out[i] = line
	return out
}

func reject(s State, message string) transition {
	s.LastError = message
	return transition{state: s, rejected: true}
}

// sanitize drops persisted lines that would break the quantity invariant.
func sanitize(items []domain.CartLineItem) []domain.CartLineItem {
	out := make([]domain.CartLineItem, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 || item.StockSnapshot < 1 {
			continue
		}
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		if item.Quantity > item.StockSnapshot {
			item.Quantity = item.StockSnapshot
		}
		out = append(out, item)
	}
	return out
}
