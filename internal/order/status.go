package order

// Order statuses. An order moves forward through pending → processing →
// shipped → delivered (skipping ahead is allowed, moving back is not) or
// leaves the happy path once via cancellation. Delivered and cancelled are
// terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidTarget reports whether s is a status an update request may name.
// Pending is excluded: it is set once by order creation and never again.
func ValidTarget(s string) bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// allowedFrom returns the statuses an order must currently hold for a
// transition to target to be legal. The transition itself is executed as a
// conditional update against this set, which makes it the concurrency
// guard: of two racing transitions only one finds the order in a listed
// status.
func allowedFrom(target string) []string {
	switch target {
	case StatusProcessing:
		return []string{StatusPending}
	case StatusShipped:
		return []string{StatusPending, StatusProcessing}
	case StatusDelivered:
		return []string{StatusPending, StatusProcessing, StatusShipped}
	case StatusCancelled:
		return []string{StatusPending, StatusProcessing}
	}
	return nil
}
