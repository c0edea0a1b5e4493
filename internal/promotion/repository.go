package promotion

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound   = errors.New("promotion not found")
	ErrCodeExists = errors.New("promotion code already exists")
)

type Repository interface {
	List() ([]Promotion, error)
	GetByCode(code string) (Promotion, error)
	Create(p Promotion) (Promotion, error)
	Delete(id int) error
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu         sync.RWMutex
	promotions []Promotion
	nextID     int
}

func NewInMemoryRepository(seed []Promotion) *InMemoryRepository {
	r := &InMemoryRepository{promotions: make([]Promotion, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, p := range seed {
		r.promotions = append(r.promotions, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List() ([]Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Promotion, len(r.promotions))
	copy(out, r.promotions)
	return out, nil
}

func (r *InMemoryRepository) GetByCode(code string) (Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.promotions {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return Promotion{}, ErrNotFound
}

func (r *InMemoryRepository) Create(p Promotion) (Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.promotions {
		if strings.EqualFold(existing.Code, p.Code) {
			return Promotion{}, ErrCodeExists
		}
	}
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.promotions = append(r.promotions, p)
	return p, nil
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.promotions {
		if p.ID == id {
			r.promotions = append(r.promotions[:i], r.promotions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
