package promotion

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrExpired         = errors.New("promotion code has expired")
	ErrInvalidDiscount = errors.New("discountPercent must be between 1 and 100")
)

// ServiceInterface is consumed by the order service when a promo code is
// applied at checkout.
type ServiceInterface interface {
	List() ([]Promotion, error)
	Validate(code string) (Promotion, error)
	Discount(code string, itemsPrice float64) (float64, error)
	Create(p Promotion) (Promotion, error)
	Delete(id int) error
}

type Service struct {
	repo Repository
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns promotions that are still redeemable. Entries whose expiry
// date has passed are filtered out of the public listing but stay in the
// store for admin bookkeeping.
func (s *Service) List() ([]Promotion, error) {
	all, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]Promotion, 0, len(all))
	for _, p := range all {
		expiry, err := time.Parse(time.RFC3339, p.ExpiryDate)
		if err == nil && now.After(expiry) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Validate resolves a code to its promotion, rejecting expired ones.
func (s *Service) Validate(code string) (Promotion, error) {
	p, err := s.repo.GetByCode(strings.TrimSpace(code))
	if err != nil {
		return Promotion{}, err
	}

	expiry, err := time.Parse(time.RFC3339, p.ExpiryDate)
	if err == nil && time.Now().After(expiry) {
		return Promotion{}, ErrExpired
	}

	return p, nil
}

// Discount computes the amount a code takes off the given items subtotal,
// rounded to cents.
func (s *Service) Discount(code string, itemsPrice float64) (float64, error) {
	p, err := s.Validate(code)
	if err != nil {
		return 0, err
	}
	discount := itemsPrice * float64(p.DiscountPercent) / 100
	return math.Round(discount*100) / 100, nil
}

func (s *Service) Create(p Promotion) (Promotion, error) {
	if p.DiscountPercent < 1 || p.DiscountPercent > 100 {
		return Promotion{}, ErrInvalidDiscount
	}
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Create(p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
