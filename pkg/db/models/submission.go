package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/enums"
)

// Submission is one seller-offered garment awaiting review.
type Submission struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index:submissions_user_id_idx"`
	Title            string                 `gorm:"column:title;not null"`
	Brand            string                 `gorm:"column:brand"`
	Size             string                 `gorm:"column:size"`
	Condition        enums.Condition        `gorm:"column:condition;type:text;not null"`
	Description      *string                `gorm:"column:description"`
	AskingPriceCents int                    `gorm:"column:asking_price_cents;not null"`
	PhotoURLs        []string               `gorm:"column:photo_urls;type:jsonb;serializer:json"`
	Status           enums.SubmissionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
