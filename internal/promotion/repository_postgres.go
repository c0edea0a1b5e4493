package promotion

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const promotionColumns = `promotion_id, code, COALESCE(description, ''), discount_percent, expiry_date, created_at`

func (r *PostgresRepository) List() ([]Promotion, error) {
	rows, err := r.db.Query(`SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Promotion, 0)
	for rows.Next() {
		var p Promotion
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.DiscountPercent, &p.ExpiryDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByCode(code string) (Promotion, error) {
	var p Promotion
	err := r.db.QueryRow(`SELECT `+promotionColumns+` FROM promotions WHERE code = $1`, strings.ToUpper(code)).Scan(
		&p.ID, &p.Code, &p.Description, &p.DiscountPercent, &p.ExpiryDate, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return Promotion{}, ErrNotFound
	}
	if err != nil {
		return Promotion{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Promotion) (Promotion, error) {
	if _, err := r.GetByCode(p.Code); err == nil {
		return Promotion{}, ErrCodeExists
	} else if err != ErrNotFound {
		return Promotion{}, err
	}

	err := r.db.QueryRow(`INSERT INTO promotions (code, description, discount_percent, expiry_date, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING promotion_id`,
		strings.ToUpper(p.Code), p.Description, p.DiscountPercent, p.ExpiryDate, p.CreatedAt).Scan(&p.ID)
	if isUniqueViolation(err) {
		// a concurrent create won the race to the unique index
		return Promotion{}, ErrCodeExists
	}
	if err != nil {
		return Promotion{}, err
	}
	p.Code = strings.ToUpper(p.Code)
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM promotions WHERE promotion_id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
