package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/enums"
)

// PlaceOrderRequest carries the buyer contact details for a manual-payment
// checkout. Payment happens out of band; the proof name references the
// transfer receipt the buyer uploaded.
type PlaceOrderRequest struct {
	BuyerName        string  `json:"buyer_name" validate:"required"`
	BuyerEmail       string  `json:"buyer_email" validate:"required,email"`
	BuyerPhone       string  `json:"buyer_phone" validate:"required"`
	PaymentProofName *string `json:"payment_proof_name,omitempty"`
}

// OrderLineDTO is the transport shape for one order line.
type OrderLineDTO struct {
	ListingID         string `json:"listing_id"`
	Title             string `json:"title"`
	Brand             string `json:"brand,omitempty"`
	Size              string `json:"size,omitempty"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int    `json:"unit_price_cents"`
	LineSubtotalCents int    `json:"line_subtotal_cents"`
}

// OrderDTO is the transport shape for one order.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	UserID     *uuid.UUID        `json:"user_id,omitempty"`
	BuyerName  string            `json:"buyer_name"`
	BuyerEmail string            `json:"buyer_email"`
	TotalCents int               `json:"total_cents"`
	Currency   string            `json:"currency"`
	Status     enums.OrderStatus `json:"status"`
	Lines      []OrderLineDTO    `json:"lines"`
	CreatedAt  time.Time         `json:"created_at"`
}

// UpdateStatusRequest is the admin payload for advancing an order.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	lines := make([]OrderLineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineDTO{
			ListingID:         line.ListingID,
			Title:             line.Title,
			Brand:             line.Brand,
			Size:              line.Size,
			Quantity:          line.Quantity,
			UnitPriceCents:    line.UnitPriceCents,
			LineSubtotalCents: line.LineSubtotalCents,
		})
	}
	return &OrderDTO{
		ID:         o.ID,
		UserID:     o.UserID,
		BuyerName:  o.BuyerName,
		BuyerEmail: o.BuyerEmail,
		TotalCents: o.TotalCents,
		Currency:   o.Currency,
		Status:     o.Status,
		Lines:      lines,
		CreatedAt:  o.CreatedAt,
	}
}
