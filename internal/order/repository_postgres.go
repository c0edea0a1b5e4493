package order

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/chairup/chairup-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `o.order_id, o.user_id, o.items, o.shipping_address, o.phone_number, o.payment_method,
    o.items_price, o.shipping_price, o.discount, o.total_price, o.status, o.created_at, o.updated_at, o.delivered_at`

// Create runs the whole reservation inside one transaction: every line
// item's conditional stock decrement plus the order insert commit together
// or not at all.
func (r *PostgresRepository) Create(ord Order, discountPercent int) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	for i, item := range ord.Items {
		if err := product.ReserveStock(tx, item.ProductID, item.Quantity); err != nil {
			return Order{}, err
		}
		// capture price and display fields at purchase time
		err := tx.QueryRow(`SELECT name, price, COALESCE(image, '') FROM products WHERE product_id = $1`, item.ProductID).Scan(
			&ord.Items[i].Name, &ord.Items[i].UnitPrice, &ord.Items[i].Image)
		if err != nil {
			return Order{}, err
		}
	}

	finalizePricing(&ord, discountPercent)

	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}
	addressJSON, err := json.Marshal(ord.ShippingAddress)
	if err != nil {
		return Order{}, err
	}

	err = tx.QueryRow(`INSERT INTO orders (user_id, items, shipping_address, phone_number, payment_method,
            items_price, shipping_price, discount, total_price, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING order_id`,
		ord.UserID, itemsJSON, addressJSON, ord.PhoneNumber, ord.PaymentMethod,
		ord.ItemsPrice, ord.ShippingPrice, ord.Discount, ord.TotalPrice, ord.Status, ord.CreatedAt, ord.UpdatedAt).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+`, u.name, u.email
        FROM orders o
        LEFT JOIN users u ON u.user_id = o.user_id
        WHERE o.order_id = $1`, id)

	ord, err := scanOrderWithUser(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+`
        FROM orders o
        WHERE o.user_id = $1
        ORDER BY o.created_at DESC, o.order_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows, false)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	rows, err := r.db.Query(`SELECT ` + orderColumns + `, u.name, u.email
        FROM orders o
        LEFT JOIN users u ON u.user_id = o.user_id
        ORDER BY o.created_at DESC, o.order_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows, true)
}

// Transition is the concurrency guard for the whole lifecycle: the status
// flip is conditional on the current status, and the restock rides in the
// same transaction, so a lost race changes nothing.
func (r *PostgresRepository) Transition(id int, from []string, target string, deliveredAt *string, restock bool, updatedAt string) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`UPDATE orders o
        SET status = $1, updated_at = $2, delivered_at = COALESCE($3, delivered_at)
        WHERE o.order_id = $4 AND o.status = ANY($5)
        RETURNING `+orderColumns,
		target, updatedAt, deliveredAt, id, pq.Array(from))

	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		// Distinguish a missing order from an illegal transition.
		var current string
		err := tx.QueryRow(`SELECT status FROM orders WHERE order_id = $1`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		if err != nil {
			return Order{}, err
		}
		return Order{}, ErrInvalidTransition
	}
	if err != nil {
		return Order{}, err
	}

	if restock {
		for _, item := range ord.Items {
			if err := product.ReleaseStock(tx, item.ProductID, item.Quantity); err != nil {
				return Order{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) HasPurchased(userID, productID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (
            SELECT 1 FROM orders
            WHERE user_id = $1
              AND status = ANY($2)
              AND items @> jsonb_build_array(jsonb_build_object('productId', $3::int))
        )`, userID, pq.Array([]string{StatusShipped, StatusDelivered}), productID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var itemsJSON, addressJSON []byte
	var deliveredAt sql.NullString
	err := row.Scan(&ord.ID, &ord.UserID, &itemsJSON, &addressJSON, &ord.PhoneNumber, &ord.PaymentMethod,
		&ord.ItemsPrice, &ord.ShippingPrice, &ord.Discount, &ord.TotalPrice, &ord.Status, &ord.CreatedAt, &ord.UpdatedAt, &deliveredAt)
	if err != nil {
		return Order{}, err
	}
	return decodeOrder(ord, itemsJSON, addressJSON, deliveredAt)
}

func scanOrderWithUser(row rowScanner) (Order, error) {
	var ord Order
	var itemsJSON, addressJSON []byte
	var deliveredAt, userName, userEmail sql.NullString
	err := row.Scan(&ord.ID, &ord.UserID, &itemsJSON, &addressJSON, &ord.PhoneNumber, &ord.PaymentMethod,
		&ord.ItemsPrice, &ord.ShippingPrice, &ord.Discount, &ord.TotalPrice, &ord.Status, &ord.CreatedAt, &ord.UpdatedAt, &deliveredAt,
		&userName, &userEmail)
	if err != nil {
		return Order{}, err
	}
	ord.UserName = userName.String
	ord.UserEmail = userEmail.String
	return decodeOrder(ord, itemsJSON, addressJSON, deliveredAt)
}

func decodeOrder(ord Order, itemsJSON, addressJSON []byte, deliveredAt sql.NullString) (Order, error) {
	if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(addressJSON, &ord.ShippingAddress); err != nil {
		return Order{}, err
	}
	if deliveredAt.Valid {
		ord.DeliveredAt = &deliveredAt.String
	}
	return ord, nil
}

func scanOrders(rows *sql.Rows, withUser bool) ([]Order, error) {
	out := make([]Order, 0)
	for rows.Next() {
		var ord Order
		var err error
		if withUser {
			ord, err = scanOrderWithUser(rows)
		} else {
			ord, err = scanOrder(rows)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, rows.Err()
}
