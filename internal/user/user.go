package user

// User is an account in the storefront. Password is the bcrypt hash and is
// blanked by sanitizeUser before any user is serialized to a client.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	IsAdmin      bool   `json:"isAdmin"`

	// Set when the account was created through a social sign-in.
	GoogleID   string `json:"-"`
	FacebookID string `json:"-"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
