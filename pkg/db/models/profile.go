package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile stores shipping and display details for a user.
type Profile struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	DisplayName  string    `gorm:"column:display_name"`
	Phone        *string   `gorm:"column:phone"`
	AddressLine1 *string   `gorm:"column:address_line1"`
	AddressLine2 *string   `gorm:"column:address_line2"`
	City         *string   `gorm:"column:city"`
	PostalCode   *string   `gorm:"column:postal_code"`
	Country      *string   `gorm:"column:country"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
