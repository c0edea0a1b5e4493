package promotion

// Promotion is a percent-off promo code shown in the mobile client and
// redeemable at checkout.
type Promotion struct {
	ID              int    `json:"id"`
	Code            string `json:"code"`
	Description     string `json:"description,omitempty"`
	DiscountPercent int    `json:"discountPercent"`
	ExpiryDate      string `json:"expiryDate"`
	CreatedAt       string `json:"createdAt,omitempty"`
}
