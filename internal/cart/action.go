package cart

import "github.com/edustore/storefront/internal/domain"

// Action is the closed set of cart mutations. Every state change goes
// through Reduce with one of these, so item uniqueness and minimum
// quantities hold by construction.
type Action interface {
	isAction()
}

// AddItem adds a product to the cart. If the product is already present its
// quantity is incremented and the existing entry's metadata is kept.
type AddItem struct {
	Item     domain.CartItem
	Quantity int
}

// RemoveItem removes a product by ID; absent IDs are a no-op
type RemoveItem struct {
	ID string
}

// UpdateQuantity sets the quantity for a product. Zero or negative
// quantities remove the item.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// ClearCart empties the cart
type ClearCart struct{}

// LoadCart replaces the items wholesale. Used only at hydration.
type LoadCart struct {
	Items []domain.CartItem
}

// SetOpen sets the cart drawer visibility
type SetOpen struct {
	Open bool
}

// ToggleOpen flips the cart drawer visibility
type ToggleOpen struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (ClearCart) isAction()      {}
func (LoadCart) isAction()       {}
func (SetOpen) isAction()        {}
func (ToggleOpen) isAction()     {}

// mutatesItems reports whether the action changes the items slice and must
// therefore be followed by a persist. Visibility toggles never persist.
func mutatesItems(a Action) bool {
	switch a.(type) {
	case AddItem, RemoveItem, UpdateQuantity, ClearCart:
		return true
	default:
		return false
	}
}
