package product

import "fmt"

// Product is a catalog entry. StockQuantity is the only hot shared-mutable
// field in the system; it is adjusted exclusively through Reserve/Release,
// never through a blind write.
type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Description   string  `json:"description,omitempty"`
	Image         string  `json:"image,omitempty"`
	StockQuantity int     `json:"stockQuantity"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

// InsufficientStockError reports a reservation that asked for more units
// than the product has. Available is the stock level observed when the
// reservation was rejected.
type InsufficientStockError struct {
	ProductID int
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("not enough stock for %s. Available: %d", name, e.Available)
}
