package review

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrForbidden       = errors.New("not authorized to update this review")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

type Repository interface {
	GetByID(id int) (Review, error)
	GetByUserAndProduct(userID, productID int) (Review, error)
	// Create fails with ErrAlreadyReviewed when the (user, product) pair
	// already has a review; the pair is unique.
	Create(rv Review) (Review, error)
	// Update changes rating and comment only; the verified flag and the
	// ownership are immutable.
	Update(id, rating int, comment, updatedAt string) (Review, error)
	ListByProduct(productID int) ([]Review, error)
	ListByUser(userID int) ([]Review, error)
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) GetByID(id int) (Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rv := range r.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return Review{}, ErrNotFound
}

func (r *InMemoryRepository) GetByUserAndProduct(userID, productID int) (Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rv := range r.reviews {
		if rv.UserID == userID && rv.ProductID == productID {
			return rv, nil
		}
	}
	return Review{}, ErrNotFound
}

func (r *InMemoryRepository) Create(rv Review) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == rv.UserID && existing.ProductID == rv.ProductID {
			return Review{}, ErrAlreadyReviewed
		}
	}
	rv.ID = r.nextID
	r.nextID++
	r.reviews = append(r.reviews, rv)
	return rv, nil
}

func (r *InMemoryRepository) Update(id, rating int, comment, updatedAt string) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reviews {
		if r.reviews[i].ID == id {
			r.reviews[i].Rating = rating
			r.reviews[i].Comment = comment
			r.reviews[i].UpdatedAt = updatedAt
			return r.reviews[i], nil
		}
	}
	return Review{}, ErrNotFound
}

func (r *InMemoryRepository) ListByProduct(productID int) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			out = append(out, rv)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt == reviews[j].CreatedAt {
			return reviews[i].ID > reviews[j].ID
		}
		return reviews[i].CreatedAt > reviews[j].CreatedAt
	})
}
