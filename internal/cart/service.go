package cart

import (
	"errors"
	"time"

	"github.com/chairup/chairup-backend/internal/product"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

// GetCart returns the user's cart enriched with product details. Entries
// whose product no longer exists are dropped from the response.
func (s *Service) GetCart(userID int) ([]CartItem, error) {
	items, err := s.repo.GetItems(userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(items)
}

// SetItem stores the desired quantity for a product after checking it
// against current stock. The check is best effort: the authoritative
// check-and-decrement happens at order creation.
func (s *Service) SetItem(userID, productID, qty int) ([]CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if qty > p.StockQuantity {
		return nil, &product.InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.StockQuantity}
	}

	items, err := s.repo.SetItem(userID, productID, qty, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return s.enrich(items)
}

func (s *Service) RemoveItem(userID, productID int) ([]CartItem, error) {
	items, err := s.repo.RemoveItem(userID, productID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return s.enrich(items)
}

func (s *Service) Clear(userID int) error {
	return s.repo.Clear(userID, time.Now().UTC().Format(time.RFC3339))
}

func (s *Service) enrich(items map[int]int) ([]CartItem, error) {
	if len(items) == 0 {
		return []CartItem{}, nil
	}

	ids := make([]int, 0, len(items))
	for pid := range items {
		ids = append(ids, pid)
	}

	products, err := s.products.ListByIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]CartItem, 0, len(products))
	for _, p := range products {
		out = append(out, CartItem{Product: p, Quantity: items[p.ID]})
	}
	return out, nil
}
