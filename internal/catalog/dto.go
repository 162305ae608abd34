package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	"github.com/relovedshop/reloved-backend/pkg/types"
)

// ListingFilters describe the facet knobs supported by the browse endpoint.
type ListingFilters struct {
	Brand         *string          `json:"brand,omitempty"`
	Size          *string          `json:"size,omitempty"`
	Condition     *enums.Condition `json:"condition,omitempty"`
	Sex           *enums.Sex       `json:"sex,omitempty"`
	Category      *string          `json:"category,omitempty"`
	PriceMinCents *int             `json:"price_min_cents,omitempty"`
	PriceMaxCents *int             `json:"price_max_cents,omitempty"`
	IncludeSold   bool             `json:"include_sold,omitempty"`
	Query         string           `json:"q,omitempty"`
}

// ListListingsInput captures the filter and cursor inputs for one page.
type ListListingsInput struct {
	Filters ListingFilters
	Limit   int
	Cursor  string
}

// ListingDTO is the transport shape for one listing.
type ListingDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Brand       string          `json:"brand"`
	Description *string         `json:"description,omitempty"`
	PriceCents  int             `json:"price_cents"`
	Size        string          `json:"size"`
	Condition   enums.Condition `json:"condition"`
	Sex         *enums.Sex      `json:"sex,omitempty"`
	Category    *string         `json:"category,omitempty"`
	ImageURL    string          `json:"image_url"`
	Sold        bool            `json:"sold"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListingPage is one page of listings plus the cursor for the next one.
type ListingPage struct {
	Listings   []ListingDTO `json:"listings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateListingRequest is the admin payload for publishing a listing.
type CreateListingRequest struct {
	Title       string  `json:"title" validate:"required"`
	Brand       string  `json:"brand" validate:"required"`
	Description *string `json:"description,omitempty"`
	PriceCents  int     `json:"price_cents" validate:"required,gt=0"`
	Size        string  `json:"size" validate:"required"`
	Condition   string  `json:"condition" validate:"required"`
	Sex         *string `json:"sex,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    string  `json:"image_url" validate:"required,url"`
}

func FromModel(l *models.Listing) ListingDTO {
	return ListingDTO{
		ID:          l.ID,
		Title:       l.Title,
		Brand:       l.Brand,
		Description: l.Description,
		PriceCents:  l.PriceCents,
		Size:        l.Size,
		Condition:   l.Condition,
		Sex:         l.Sex,
		Category:    l.Category,
		ImageURL:    l.ImageURL,
		Sold:        l.Sold,
		CreatedAt:   l.CreatedAt,
	}
}

// SnapshotFromModel captures the denormalized listing fields stored alongside
// cart and likes rows.
func SnapshotFromModel(l *models.Listing) types.ListingSnapshot {
	return types.ListingSnapshot{
		Title:       l.Title,
		Brand:       l.Brand,
		PriceCents:  l.PriceCents,
		Size:        l.Size,
		Condition:   l.Condition.String(),
		ImageURL:    l.ImageURL,
		Description: l.Description,
		Sex:         sexString(l.Sex),
		Category:    l.Category,
	}
}

// SnapshotFromDTO builds the same denormalized snapshot from a transport
// listing, for callers that only hold the DTO.
func SnapshotFromDTO(l *ListingDTO) types.ListingSnapshot {
	return types.ListingSnapshot{
		Title:       l.Title,
		Brand:       l.Brand,
		PriceCents:  l.PriceCents,
		Size:        l.Size,
		Condition:   l.Condition.String(),
		ImageURL:    l.ImageURL,
		Description: l.Description,
		Sex:         sexString(l.Sex),
		Category:    l.Category,
	}
}

func sexString(s *enums.Sex) *string {
	if s == nil {
		return nil
	}
	value := s.String()
	return &value
}
