package review

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reviewColumns = `r.review_id, r.user_id, r.product_id, r.rating, COALESCE(r.comment, ''), r.verified, r.created_at, r.updated_at`

func (r *PostgresRepository) GetByID(id int) (Review, error) {
	row := r.db.QueryRow(`SELECT `+reviewColumns+` FROM reviews r WHERE r.review_id = $1`, id)
	return scanReview(row)
}

func (r *PostgresRepository) GetByUserAndProduct(userID, productID int) (Review, error) {
	row := r.db.QueryRow(`SELECT `+reviewColumns+` FROM reviews r WHERE r.user_id = $1 AND r.product_id = $2`, userID, productID)
	return scanReview(row)
}

func (r *PostgresRepository) Create(rv Review) (Review, error) {
	// the unique (user_id, product_id) index is the authoritative guard;
	// the pre-check just yields a friendlier error
	if _, err := r.GetByUserAndProduct(rv.UserID, rv.ProductID); err == nil {
		return Review{}, ErrAlreadyReviewed
	} else if err != ErrNotFound {
		return Review{}, err
	}

	err := r.db.QueryRow(`INSERT INTO reviews (user_id, product_id, rating, comment, verified, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING review_id`,
		rv.UserID, rv.ProductID, rv.Rating, rv.Comment, rv.Verified, rv.CreatedAt, rv.UpdatedAt).Scan(&rv.ID)
	if isUniqueViolation(err) {
		// a concurrent submit won the race to the unique index
		return Review{}, ErrAlreadyReviewed
	}
	if err != nil {
		return Review{}, err
	}
	return rv, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) Update(id, rating int, comment, updatedAt string) (Review, error) {
	row := r.db.QueryRow(`UPDATE reviews r
        SET rating = $1, comment = $2, updated_at = $3
        WHERE r.review_id = $4
        RETURNING `+reviewColumns,
		rating, comment, updatedAt, id)
	return scanReview(row)
}

func (r *PostgresRepository) ListByProduct(productID int) ([]Review, error) {
	rows, err := r.db.Query(`SELECT `+reviewColumns+`, u.name, COALESCE(u.profile_image, '')
        FROM reviews r
        LEFT JOIN users u ON u.user_id = r.user_id
        WHERE r.product_id = $1
        ORDER BY r.created_at DESC, r.review_id DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var rv Review
		var userName sql.NullString
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.Verified, &rv.CreatedAt, &rv.UpdatedAt,
			&userName, &rv.UserImage); err != nil {
			return nil, err
		}
		rv.UserName = userName.String
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByUser(userID int) ([]Review, error) {
	rows, err := r.db.Query(`SELECT `+reviewColumns+`
        FROM reviews r
        WHERE r.user_id = $1
        ORDER BY r.created_at DESC, r.review_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.Verified, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func scanReview(row *sql.Row) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.Verified, &rv.CreatedAt, &rv.UpdatedAt)
	if err == sql.ErrNoRows {
		return Review{}, ErrNotFound
	}
	if err != nil {
		return Review{}, err
	}
	return rv, nil
}
