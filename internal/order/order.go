package order

import "math"

// Payment methods accepted at checkout.
const (
	PaymentCreditCard     = "creditCard"
	PaymentWallet         = "wallet"
	PaymentCashOnDelivery = "cashOnDelivery"
)

// OrderItem is one purchased line: the quantity plus the unit price and
// display fields captured from the product at order time. Items are
// immutable once the order exists.
type OrderItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order is a checkout record. TotalPrice always equals
// ItemsPrice + ShippingPrice - Discount.
type Order struct {
	ID              int             `json:"id"`
	UserID          int             `json:"userId"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PhoneNumber     string          `json:"phoneNumber"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	Discount        float64         `json:"discount"`
	TotalPrice      float64         `json:"totalPrice"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
	DeliveredAt     *string         `json:"deliveredAt,omitempty"`

	// Populated for admin views.
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

// finalizePricing fills the computed price fields from the captured unit
// prices. discountPercent comes from a promotion resolved before the order
// was persisted; 0 means no promotion.
func finalizePricing(ord *Order, discountPercent int) {
	items := 0.0
	for _, item := range ord.Items {
		items += item.UnitPrice * float64(item.Quantity)
	}
	ord.ItemsPrice = roundCents(items)
	ord.Discount = roundCents(items * float64(discountPercent) / 100)
	ord.TotalPrice = roundCents(ord.ItemsPrice + ord.ShippingPrice - ord.Discount)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
