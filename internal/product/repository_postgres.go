package product

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `product_id, name, price, category, COALESCE(description, ''), COALESCE(image, ''), stock_quantity, created_at, updated_at`

// Execer is satisfied by both *sql.DB and *sql.Tx so the stock helpers can
// run standalone or inside an order transaction.
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// ReserveStock decrements stock only when enough units remain. The check
// and the decrement are one conditional UPDATE, so two concurrent
// reservations for the last units cannot both pass.
func ReserveStock(db Execer, productID, qty int) error {
	res, err := db.Exec(`UPDATE products
        SET stock_quantity = stock_quantity - $1, updated_at = $2
        WHERE product_id = $3 AND stock_quantity >= $1`,
		qty, time.Now().UTC().Format(time.RFC3339), productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// No row matched: either the product is gone or the stock is short.
	var name string
	var available int
	err = db.QueryRow(`SELECT name, stock_quantity FROM products WHERE product_id = $1`, productID).Scan(&name, &available)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return &InsufficientStockError{ProductID: productID, Name: name, Available: available}
}

// ReleaseStock adds qty back after a cancellation. The caller couples it to
// the status transition so it runs at most once per order.
func ReleaseStock(db Execer, productID, qty int) error {
	res, err := db.Exec(`UPDATE products
        SET stock_quantity = stock_quantity + $1, updated_at = $2
        WHERE product_id = $3`,
		qty, time.Now().UTC().Format(time.RFC3339), productID)
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

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	var p Product
	err := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE product_id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.Image, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(`SELECT `+productColumns+`
        FROM products
        WHERE product_id = ANY($1::int[])
        ORDER BY array_position($1::int[], product_id)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(`INSERT INTO products (name, price, category, description, image, stock_quantity, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING product_id`,
		p.Name, p.Price, p.Category, p.Description, p.Image, p.StockQuantity, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	err := r.db.QueryRow(`UPDATE products
        SET name = $1, price = $2, category = $3, description = $4, image = $5, stock_quantity = $6, updated_at = $7
        WHERE product_id = $8
        RETURNING `+productColumns,
		p.Name, p.Price, p.Category, p.Description, p.Image, p.StockQuantity, p.UpdatedAt, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.Image, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE product_id = $1`, id)
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

func (r *PostgresRepository) Reserve(productID, qty int) error {
	return ReserveStock(r.db, productID, qty)
}

func (r *PostgresRepository) Release(productID, qty int) error {
	return ReleaseStock(r.db, productID, qty)
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.Image, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
