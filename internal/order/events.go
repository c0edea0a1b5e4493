package order

import "time"

// Routing keys for order lifecycle events.
const (
	RoutingKeyCreated       = "order.created"
	RoutingKeyStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is published after a checkout commits.
type OrderCreatedEvent struct {
	EventID    string      `json:"eventId"`
	OrderID    int         `json:"orderId"`
	UserID     int         `json:"userId"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	Timestamp  time.Time   `json:"timestamp"`
}

// OrderStatusChangedEvent is published after a status transition commits.
// Restocked is true for cancellations, whose stock reversal has already
// been applied when the event goes out.
type OrderStatusChangedEvent struct {
	EventID   string    `json:"eventId"`
	OrderID   int       `json:"orderId"`
	UserID    int       `json:"userId"`
	Status    string    `json:"status"`
	Restocked bool      `json:"restocked"`
	Timestamp time.Time `json:"timestamp"`
}
