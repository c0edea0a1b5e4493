package order

import (
	"errors"
	"sort"
	"sync"

	"github.com/chairup/chairup-backend/internal/product"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("not authorized for this order")
	ErrInvalidTransition = errors.New("status change not permitted from current state")
	ErrInvalidStatus     = errors.New("invalid status value")
)

type Repository interface {
	// Create reserves stock for every line item and persists the order
	// as one atomic step: if any reservation fails, no stock changes and
	// no order is written. Unit prices and display fields are captured
	// from the product rows at this moment.
	Create(ord Order, discountPercent int) (Order, error)
	GetByID(id int) (Order, error)
	ListByUser(userID int) ([]Order, error)
	ListAll() ([]Order, error)
	// Transition moves the order to target only if its current status is
	// in from; otherwise ErrInvalidTransition. When restock is true the
	// released stock is coupled to the same atomic step, so a cancelled
	// order restocks exactly once.
	Transition(id int, from []string, target string, deliveredAt *string, restock bool, updatedAt string) (Order, error)
	// HasPurchased reports whether the user has an order containing the
	// product with status shipped or delivered.
	HasPurchased(userID, productID int) (bool, error)
}

// InMemoryRepository backs tests. Stock adjustments go through the product
// repository so the conservation invariants can be asserted end to end.
type InMemoryRepository struct {
	mu       sync.RWMutex
	orders   []Order
	nextID   int
	products product.Repository
}

func NewInMemoryRepository(products product.Repository) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, products: products}
}

func (r *InMemoryRepository) Create(ord Order, discountPercent int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Reserve in input order; on failure release what was already taken
	// so the operation is all-or-nothing.
	reserved := make([]OrderItem, 0, len(ord.Items))
	for i, item := range ord.Items {
		p, err := r.products.GetByID(item.ProductID)
		if err != nil {
			r.rollback(reserved)
			return Order{}, err
		}
		if err := r.products.Reserve(item.ProductID, item.Quantity); err != nil {
			r.rollback(reserved)
			return Order{}, err
		}
		ord.Items[i].Name = p.Name
		ord.Items[i].Image = p.Image
		ord.Items[i].UnitPrice = p.Price
		reserved = append(reserved, ord.Items[i])
	}

	finalizePricing(&ord, discountPercent)
	ord.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) rollback(reserved []OrderItem) {
	for _, item := range reserved {
		r.products.Release(item.ProductID, item.Quantity)
	}
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ord := range r.orders {
		if ord.ID == id {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) ListAll() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) Transition(id int, from []string, target string, deliveredAt *string, restock bool, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		matched := false
		for _, s := range from {
			if r.orders[i].Status == s {
				matched = true
				break
			}
		}
		if !matched {
			return Order{}, ErrInvalidTransition
		}

		r.orders[i].Status = target
		r.orders[i].UpdatedAt = updatedAt
		if deliveredAt != nil {
			r.orders[i].DeliveredAt = deliveredAt
		}
		if restock {
			for _, item := range r.orders[i].Items {
				r.products.Release(item.ProductID, item.Quantity)
			}
		}
		return r.orders[i], nil
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) HasPurchased(userID, productID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ord := range r.orders {
		if ord.UserID != userID {
			continue
		}
		if ord.Status != StatusShipped && ord.Status != StatusDelivered {
			continue
		}
		for _, item := range ord.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func sortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt == orders[j].CreatedAt {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
}
