// internal/models/cart.go
package models

// CartItem is a cart line item: a product snapshot plus a mutable quantity.
// Quantity is always >= 1 while the item is present; an item whose quantity
// would drop to zero is removed from the cart instead.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns the line total under the visible-price-only policy.
func (i *CartItem) Subtotal() float64 {
	return i.Product.VisiblePriceUSD() * float64(i.Quantity)
}
