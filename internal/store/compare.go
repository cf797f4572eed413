// internal/store/compare.go
package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/uzagro/storefront/internal/models"
	"github.com/uzagro/storefront/internal/store/persist"
)

// CompareCapacity is the maximum number of products held for side-by-side
// comparison.
const CompareCapacity = 4

// AddResult tells the caller what AddItem (or Toggle) actually did, instead
// of failing silently when the list is full or the product is already there.
type AddResult string

const (
	Added            AddResult = "added"
	AlreadyPresent   AddResult = "already_present"
	CapacityExceeded AddResult = "capacity_exceeded"
	Removed          AddResult = "removed"
)

// Compare holds up to CompareCapacity distinct product snapshots for
// attribute-by-attribute comparison. Unlike the cart, the compare bar closes
// itself when the collection empties.
type Compare struct {
	mu        sync.Mutex
	items     []models.Product
	isOpen    bool
	key       string
	persister persist.Persister
	hub       hub
}

type compareSnapshot struct {
	State   compareState `json:"state"`
	Version int          `json:"version"`
}

type compareState struct {
	Items []models.Product `json:"items"`
}

// NewCompare builds a comparison list bound to the given storage key and
// rehydrates it. Absent or unreadable snapshots yield an empty list.
func NewCompare(persister persist.Persister, key string) *Compare {
	if key == "" {
		key = CompareStorageKey
	}
	c := &Compare{key: key, persister: persister}
	c.rehydrate()
	return c
}

// AddItem appends the product unless it is already present or the list is
// full. A successful add reveals the compare bar.
func (c *Compare) AddItem(product models.Product) AddResult {
	c.mu.Lock()
	if c.containsLocked(product.ID) {
		c.mu.Unlock()
		return AlreadyPresent
	}
	if len(c.items) >= CompareCapacity {
		c.mu.Unlock()
		return CapacityExceeded
	}
	c.items = append(c.items, product)
	c.isOpen = true
	data := c.snapshotLocked()
	c.mu.Unlock()

	c.commit(data)
	return Added
}

// RemoveItem deletes the product with the given id. The bar closes when the
// last item goes; otherwise visibility is untouched.
func (c *Compare) RemoveItem(productID int64) {
	c.mu.Lock()
	removed := false
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		c.mu.Unlock()
		return
	}
	if len(c.items) == 0 {
		c.isOpen = false
	}
	data := c.snapshotLocked()
	c.mu.Unlock()

	c.commit(data)
}

// Clear empties the list and closes the bar.
func (c *Compare) Clear() {
	c.mu.Lock()
	c.items = nil
	c.isOpen = false
	data := c.snapshotLocked()
	c.mu.Unlock()

	c.commit(data)
}

// ToggleOpen flips the bar visibility, or sets it when an explicit value is
// given.
func (c *Compare) ToggleOpen(explicit ...bool) {
	c.mu.Lock()
	if len(explicit) > 0 {
		c.isOpen = explicit[0]
	} else {
		c.isOpen = !c.isOpen
	}
	c.mu.Unlock()

	c.hub.notify()
}

// Contains reports whether a product with the given id is in the list.
func (c *Compare) Contains(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.containsLocked(productID)
}

// Toggle removes the product if present, else adds it. The product-card
// compare button is this one operation.
func (c *Compare) Toggle(product models.Product) AddResult {
	if c.Contains(product.ID) {
		c.RemoveItem(product.ID)
		return Removed
	}
	return c.AddItem(product)
}

// Items returns a copy of the products in insertion order.
func (c *Compare) Items() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Product, len(c.items))
	copy(out, c.items)
	return out
}

// IsOpen reports the transient bar-visibility flag.
func (c *Compare) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// Len returns the number of products held.
func (c *Compare) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subscribe registers fn to run after every mutation and returns its
// unsubscribe func.
func (c *Compare) Subscribe(fn func()) func() {
	return c.hub.subscribe(fn)
}

func (c *Compare) containsLocked(productID int64) bool {
	for i := range c.items {
		if c.items[i].ID == productID {
			return true
		}
	}
	return false
}

func (c *Compare) snapshotLocked() []byte {
	items := c.items
	if items == nil {
		items = []models.Product{}
	}
	data, err := json.Marshal(compareSnapshot{
		State:   compareState{Items: items},
		Version: snapshotVersion,
	})
	if err != nil {
		logPersistFailure(c.key, err)
		return nil
	}
	return data
}

func (c *Compare) commit(data []byte) {
	if data != nil && c.persister != nil {
		ctx, cancel := persistContext()
		if err := c.persister.Save(ctx, c.key, data); err != nil {
			logPersistFailure(c.key, err)
		}
		cancel()
	}
	c.hub.notify()
}

func (c *Compare) rehydrate() {
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

	var snap compareSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logRehydrateFailure(c.key, err)
		return
	}

	// Dedup and re-apply the capacity bound to whatever was stored.
	seen := make(map[int64]bool, len(snap.State.Items))
	for _, item := range snap.State.Items {
		if seen[item.ID] || len(c.items) >= CompareCapacity {
			continue
		}
		seen[item.ID] = true
		c.items = append(c.items, item)
	}
}
