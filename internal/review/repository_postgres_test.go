package review

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestCreate_ConcurrentDuplicateMapsToSentinel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// The pre-check sees no review, but a concurrent submit commits first
	// and the insert bounces off the unique (user_id, product_id) index.
	mock.ExpectQuery("FROM reviews r WHERE r.user_id").
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}))
	mock.ExpectQuery("INSERT INTO reviews").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.Create(Review{UserID: 7, ProductID: 1, Rating: 5})
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
