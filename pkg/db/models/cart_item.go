package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/types"
)

// CartItem persists one cart row for an authenticated user. ListingID is kept
// as text because callers hand collection item ids around in string form.
type CartItem struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index:cart_items_user_id_idx"`
	ListingID string                `gorm:"column:listing_id;type:text;not null"`
	Snapshot  types.ListingSnapshot `gorm:"column:snapshot;type:jsonb;serializer:json"`
	Quantity  int                   `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
