package cart

import "github.com/chairup/chairup-backend/internal/product"

// CartItem is one cart line enriched with the product's display fields so
// the client can render it without extra round trips.
type CartItem struct {
	product.Product
	Quantity int `json:"quantity"`
}
