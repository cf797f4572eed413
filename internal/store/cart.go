// internal/store/cart.go
package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/uzagro/storefront/internal/models"
	"github.com/uzagro/storefront/internal/store/persist"
)

// Cart holds the shopping-cart line items for one session. Items are keyed
// uniquely by product id and kept in insertion order; quantity updates never
// reorder. The open flag is session-transient and excluded from snapshots.
type Cart struct {
	mu        sync.Mutex
	items     []models.CartItem
	isOpen    bool
	key       string
	persister persist.Persister
	hub       hub
}

type cartSnapshot struct {
	State   cartState `json:"state"`
	Version int       `json:"version"`
}

type cartState struct {
	Items []models.CartItem `json:"items"`
}

// NewCart builds a cart bound to the given storage key and rehydrates it.
// An absent or unreadable snapshot yields an empty cart, never an error.
func NewCart(persister persist.Persister, key string) *Cart {
	if key == "" {
		key = CartStorageKey
	}
	c := &Cart{key: key, persister: persister}
	c.rehydrate()
	return c
}

// AddItem merges the product into the cart. An existing line with the same
// product id has its quantity incremented; otherwise a new line is appended.
// Non-positive quantities are clamped to 1. Adding always reveals the cart.
func (c *Cart) AddItem(product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	merged := false
	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, models.CartItem{Product: product, Quantity: quantity})
	}
	c.isOpen = true
	data := c.snapshotLocked()
	c.mu.Unlock()

	c.commit(data)
}

// RemoveItem deletes the line with the given product id. Absent ids are a
// no-op, not an error (double-clicked remove buttons are expected traffic).
func (c *Cart) RemoveItem(productID int64) {
	c.mu.Lock()
	removed := false
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		c.mu.Unlock()
		return
	}
	data := c.snapshotLocked()
	c.mu.Unlock()

	c.commit(data)
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less
// removes the line, keeping the "no zero-quantity items" invariant. Unknown
// ids are a no-op.
func (c *Cart) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	c.mu.Lock()
	updated := false
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			updated = true
			break
		}
	}
	if !updated {
		c.mu.Unlock()
		return
	}
	data := c.snapshotLocked()
	c.mu.Unlock()

	c.commit(data)
}

// Clear empties the cart. The open flag is left as-is so the (now empty)
// panel stays visible if it was showing.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	data := c.snapshotLocked()
	c.mu.Unlock()

	c.commit(data)
}

// ToggleOpen flips the panel visibility, or sets it when an explicit value
// is given. Visibility is not persisted.
func (c *Cart) ToggleOpen(explicit ...bool) {
	c.mu.Lock()
	if len(explicit) > 0 {
		c.isOpen = explicit[0]
	} else {
		c.isOpen = !c.isOpen
	}
	c.mu.Unlock()

	c.hub.notify()
}

// Total returns the visible-price-only subtotal in USD: lines whose price is
// hidden or null contribute zero.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for i := range c.items {
		total += c.items[i].Subtotal()
	}
	return total
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// IsOpen reports the transient panel-visibility flag.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subscribe registers fn to run after every mutation and returns its
// unsubscribe func.
func (c *Cart) Subscribe(fn func()) func() {
	return c.hub.subscribe(fn)
}

func (c *Cart) snapshotLocked() []byte {
	items := c.items
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(cartSnapshot{
		State:   cartState{Items: items},
		Version: snapshotVersion,
	})
	if err != nil {
		logPersistFailure(c.key, err)
		return nil
	}
	return data
}

// commit runs the persistence side channel and notifies subscribers. A
// failed write is logged and swallowed: memory is authoritative.
func (c *Cart) commit(data []byte) {
	if data != nil && c.persister != nil {
		ctx, cancel := persistContext()
		if err := c.persister.Save(ctx, c.key, data); err != nil {
			logPersistFailure(c.key, err)
		}
		cancel()
	}
	c.hub.notify()
}

func (c *Cart) rehydrate() {
	if c.persister == nil {
		return
	}

	ctx, cancel := persistContext()
	data, err := c.persister.Load(ctx, c.key)
	cancel()
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			logRehydrateFailure(c.key, err)
		}
		return
	}

	var snap cartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logRehydrateFailure(c.key, err)
		return
	}

	// Re-enforce invariants on whatever was stored: unique ids, positive
	// quantities, insertion order as found.
	seen := make(map[int64]bool, len(snap.State.Items))
	for _, item := range snap.State.Items {
		if item.Quantity < 1 || seen[item.Product.ID] {
			continue
		}
		seen[item.Product.ID] = true
		c.items = append(c.items, item)
	}
}
