package promotion

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

	// The pre-check sees no promotion, but a concurrent create commits
	// first and the insert bounces off the unique code index.
	mock.ExpectQuery("FROM promotions WHERE code").
		WithArgs("SPRING20").
		WillReturnRows(sqlmock.NewRows([]string{"promotion_id"}))
	mock.ExpectQuery("INSERT INTO promotions").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.Create(Promotion{Code: "SPRING20", DiscountPercent: 20})
	if !errors.Is(err, ErrCodeExists) {
		t.Fatalf("expected ErrCodeExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
