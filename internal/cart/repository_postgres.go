package cart

import (
	"database/sql"
	"encoding/json"
	"strconv"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetItems(userID int) (map[int]int, error) {
	var raw sql.NullString
	err := r.db.QueryRow(`SELECT items FROM carts WHERE user_id = $1`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return map[int]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeItems(raw)
}

func (r *PostgresRepository) SetItem(userID, productID, qty int, updatedAt string) (map[int]int, error) {
	items, err := r.GetItems(userID)
	if err != nil {
		return nil, err
	}
	items[productID] = qty
	return items, r.save(userID, items, updatedAt)
}

func (r *PostgresRepository) RemoveItem(userID, productID int, updatedAt string) (map[int]int, error) {
	items, err := r.GetItems(userID)
	if err != nil {
		return nil, err
	}
	delete(items, productID)
	return items, r.save(userID, items, updatedAt)
}

func (r *PostgresRepository) Clear(userID int, updatedAt string) error {
	return r.save(userID, map[int]int{}, updatedAt)
}

func (r *PostgresRepository) save(userID int, items map[int]int, updatedAt string) error {
	encoded := make(map[string]int, len(items))
	for pid, qty := range items {
		encoded[strconv.Itoa(pid)] = qty
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`INSERT INTO carts (user_id, items, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET items = $2, updated_at = $3`,
		userID, string(raw), updatedAt)
	return err
}

func decodeItems(raw sql.NullString) (map[int]int, error) {
	if !raw.Valid || raw.String == "" {
		return map[int]int{}, nil
	}

	var m map[string]int
	if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
		return nil, err
	}

	out := make(map[int]int, len(m))
	for key, qty := range m {
		pid, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out[pid] = qty
	}
	return out, nil
}
