package cart

import "github.com/edustore/storefront/internal/domain"

// State is the cart state: line items in insertion order plus drawer
// visibility. Totals are always derived from Items, never stored.
type State struct {
	Items  []domain.CartItem
	IsOpen bool
}

// Count returns the total number of units across all lines
func (s State) Count() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price times quantity in cents
func (s State) Subtotal() int64 {
	var subtotal int64
	for _, item := range s.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// Total returns the amount due in cents. Currently equal to Subtotal; fees
// and discounts would apply here.
func (s State) Total() int64 {
	return s.Subtotal()
}

// Reduce applies one action to a state and returns the next state. It is
// pure and total over the action set: the input state is never mutated and
// unknown actions cannot exist outside this package.
func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case AddItem:
		quantity := action.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items := make([]domain.CartItem, len(s.Items))
		copy(items, s.Items)
		for i, item := range items {
			if item.ID == action.Item.ID {
				// existing entry's metadata wins over the incoming one
				items[i].Quantity += quantity
				return State{Items: items, IsOpen: s.IsOpen}
			}
		}
		added := action.Item
		added.Quantity = quantity
		return State{Items: append(items, added), IsOpen: s.IsOpen}

	case RemoveItem:
		items := make([]domain.CartItem, 0, len(s.Items))
		for _, item := range s.Items {
			if item.ID != action.ID {
				items = append(items, item)
			}
		}
		return State{Items: items, IsOpen: s.IsOpen}

	case UpdateQuantity:
		if action.Quantity <= 0 {
			return Reduce(s, RemoveItem{ID: action.ID})
		}
		items := make([]domain.CartItem, len(s.Items))
		copy(items, s.Items)
		for i := range items {
			if items[i].ID == action.ID {
				items[i].Quantity = action.Quantity
			}
		}
		return State{Items: items, IsOpen: s.IsOpen}

	case ClearCart:
		return State{Items: []domain.CartItem{}, IsOpen: s.IsOpen}

	case LoadCart:
		items := make([]domain.CartItem, len(action.Items))
		copy(items, action.Items)
		return State{Items: items, IsOpen: s.IsOpen}

	case SetOpen:
		return State{Items: s.Items, IsOpen: action.Open}

	case ToggleOpen:
		return State{Items: s.Items, IsOpen: !s.IsOpen}

	default:
		return s
	}
}
