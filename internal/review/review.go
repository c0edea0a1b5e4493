package review

// Review is a user's rating of a product. Verified marks reviews from
// buyers: it is computed once, when the review is submitted, from the
// reviewer's order history and is never re-evaluated afterwards.
type Review struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	ProductID int    `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`

	// Reviewer display fields for product pages.
	UserName  string `json:"userName,omitempty"`
	UserImage string `json:"userImage,omitempty"`
}
