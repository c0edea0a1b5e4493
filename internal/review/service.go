package review

import (
	"time"
)

// PurchaseChecker answers whether a user has bought a product. The order
// service satisfies it.
type PurchaseChecker interface {
	HasPurchased(userID, productID int) (bool, error)
}

type Service struct {
	repo      Repository
	purchases PurchaseChecker
}

func NewService(repo Repository, purchases PurchaseChecker) *Service {
	return &Service{repo: repo, purchases: purchases}
}

// CanReview reports whether the user may submit a new review for the
// product: they must have a shipped or delivered order containing it and
// must not have reviewed it yet.
func (s *Service) CanReview(userID, productID int) (bool, error) {
	if _, err := s.repo.GetByUserAndProduct(userID, productID); err == nil {
		return false, nil
	} else if err != ErrNotFound {
		return false, err
	}
	return s.purchases.HasPurchased(userID, productID)
}

// Submit creates a review. The verified flag is a snapshot of the purchase
// check at this moment; later order changes do not revisit it.
func (s *Service) Submit(userID, productID, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}

	if _, err := s.repo.GetByUserAndProduct(userID, productID); err == nil {
		return Review{}, ErrAlreadyReviewed
	} else if err != ErrNotFound {
		return Review{}, err
	}

	verified, err := s.purchases.HasPurchased(userID, productID)
	if err != nil {
		return Review{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.Create(Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		Verified:  verified,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// UpdateOwn lets the review's author change its rating and comment.
func (s *Service) UpdateOwn(reviewID, userID, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}

	existing, err := s.repo.GetByID(reviewID)
	if err != nil {
		return Review{}, err
	}
	if existing.UserID != userID {
		return Review{}, ErrForbidden
	}

	return s.repo.Update(reviewID, rating, comment, time.Now().UTC().Format(time.RFC3339))
}

func (s *Service) ListByProduct(productID int) ([]Review, error) {
	return s.repo.ListByProduct(productID)
}

func (s *Service) ListByUser(userID int) ([]Review, error) {
	return s.repo.ListByUser(userID)
}
