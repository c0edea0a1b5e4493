package cart

import (
	"sync"
)

// Repository stores one productID→quantity map per user. The server copy is
// authoritative; the mobile client keeps a local mirror it reconciles by
// fetching on focus.
type Repository interface {
	GetItems(userID int) (map[int]int, error)
	// SetItem stores the absolute quantity for a product (not an
	// increment), matching the client's cart sync semantics.
	SetItem(userID, productID, qty int, updatedAt string) (map[int]int, error)
	RemoveItem(userID, productID int, updatedAt string) (map[int]int, error)
	Clear(userID int, updatedAt string) error
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]map[int]int)}
}

func (r *InMemoryRepository) GetItems(userID int) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyItems(r.carts[userID]), nil
}

func (r *InMemoryRepository) SetItem(userID, productID, qty int, updatedAt string) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.carts[userID]
	if items == nil {
		items = make(map[int]int)
		r.carts[userID] = items
	}
	items[productID] = qty
	return copyItems(items), nil
}

func (r *InMemoryRepository) RemoveItem(userID, productID int, updatedAt string) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.carts[userID]
	delete(items, productID)
	return copyItems(items), nil
}

func (r *InMemoryRepository) Clear(userID int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func copyItems(items map[int]int) map[int]int {
	out := make(map[int]int, len(items))
	for pid, qty := range items {
		out[pid] = qty
	}
	return out
}
