package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileDTO is the transport shape for a user profile.
type ProfileDTO struct {
	UserID       uuid.UUID `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Phone        *string   `json:"phone,omitempty"`
	AddressLine1 *string   `json:"address_line1,omitempty"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         *string   `json:"city,omitempty"`
	PostalCode   *string   `json:"postal_code,omitempty"`
	Country      *string   `json:"country,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	DisplayName  string  `json:"display_name" validate:"required"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Country      *string `json:"country,omitempty"`
}

// Service defines the behavior needed by the profile controller.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error)
}

type service struct {
	db *gorm.DB
}

// ServiceParams bundles the dependencies for the profiles service.
type ServiceParams struct {
	DB *gorm.DB
}

// NewService constructs the profiles service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &service{db: params.DB}, nil
}

// Get returns the stored profile, or an empty one when the user has never
// saved shipping details.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProfileDTO{UserID: userID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return fromModel(&profile), nil
}

// Update upserts the profile row for the user.
func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	profile := models.Profile{
		UserID:       userID,
		DisplayName:  req.DisplayName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "phone", "address_line1", "address_line2",
				"city", "postal_code", "country", "updated_at",
			}),
		}).
		Create(&profile).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile")
	}
	return fromModel(&profile), nil
}

func fromModel(p *models.Profile) *ProfileDTO {
	return &ProfileDTO{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Phone:        p.Phone,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		PostalCode:   p.PostalCode,
		Country:      p.Country,
		UpdatedAt:    p.UpdatedAt,
	}
}
