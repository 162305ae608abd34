package types

// ListingSnapshot is the denormalized copy of a listing's display fields taken
// at the moment an item enters a cart or likes collection. It is never
// refreshed, so it can drift from the live listing.
type ListingSnapshot struct {
	Title       string  `json:"title"`
	Brand       string  `json:"brand"`
	PriceCents  int     `json:"price_cents"`
	Size        string  `json:"size"`
	Condition   string  `json:"condition"`
	ImageURL    string  `json:"image_url"`
	Description *string `json:"description,omitempty"`
	Sex         *string `json:"sex,omitempty"`
	Category    *string `json:"category,omitempty"`
}
