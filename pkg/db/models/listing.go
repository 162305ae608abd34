package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/enums"
)

// Listing is one secondhand garment offered in the storefront.
type Listing struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string          `gorm:"column:title;not null"`
	Brand       string          `gorm:"column:brand;not null;index"`
	Description *string         `gorm:"column:description"`
	PriceCents  int             `gorm:"column:price_cents;not null"`
	Size        string          `gorm:"column:size;not null;index"`
	Condition   enums.Condition `gorm:"column:condition;type:text;not null"`
	Sex         *enums.Sex      `gorm:"column:sex;type:text"`
	Category    *string         `gorm:"column:category;index"`
	ImageURL    string          `gorm:"column:image_url;not null"`
	Sold        bool            `gorm:"column:sold;not null;default:false"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
