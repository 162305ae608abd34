package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/types"
)

// LikedItem links a user to a liked listing. The (user_id, listing_id) pair is
// unique so a double-like surfaces as a constraint violation, not a second row.
type LikedItem struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index:liked_items_user_id_idx;uniqueIndex:liked_items_user_listing_key"`
	ListingID string                `gorm:"column:listing_id;type:text;not null;uniqueIndex:liked_items_user_listing_key"`
	Snapshot  types.ListingSnapshot `gorm:"column:snapshot;type:jsonb;serializer:json"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
