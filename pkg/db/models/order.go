package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/enums"
)

// Order captures a manual-payment checkout. UserID is nil for guest orders.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           *uuid.UUID        `gorm:"column:user_id;type:uuid;index"`
	BuyerName        string            `gorm:"column:buyer_name;not null"`
	BuyerEmail       string            `gorm:"column:buyer_email;not null"`
	BuyerPhone       string            `gorm:"column:buyer_phone;not null"`
	TotalCents       int               `gorm:"column:total_cents;not null"`
	Currency         string            `gorm:"column:currency;not null;default:'EUR'"`
	PaymentProofName *string           `gorm:"column:payment_proof_name"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending_payment'"`
	Lines            []OrderLineItem   `gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem snapshots one purchased listing at checkout time.
type OrderLineItem struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ListingID         string    `gorm:"column:listing_id;type:text;not null"`
	Title             string    `gorm:"column:title;not null"`
	Brand             string    `gorm:"column:brand"`
	Size              string    `gorm:"column:size"`
	Quantity          int       `gorm:"column:quantity;not null"`
	UnitPriceCents    int       `gorm:"column:unit_price_cents;not null"`
	LineSubtotalCents int       `gorm:"column:line_subtotal_cents;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
