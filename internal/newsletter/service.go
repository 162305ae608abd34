package newsletter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"gorm.io/gorm"
)

// SubscribeRequest carries the email to opt in.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Service defines the behavior needed by the newsletter controller.
type Service interface {
	Subscribe(ctx context.Context, req SubscribeRequest) error
	Unsubscribe(ctx context.Context, email string) error
}

type service struct {
	db *gorm.DB
}

// ServiceParams bundles the dependencies for the newsletter service.
type ServiceParams struct {
	DB *gorm.DB
}

// NewService constructs the newsletter service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &service{db: params.DB}, nil
}

// Subscribe records the address. Subscribing twice is not an error; the
// caller only cares that the address is on the list.
func (s *service) Subscribe(ctx context.Context, req SubscribeRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	subscriber := models.NewsletterSubscriber{
		ID:    uuid.New(),
		Email: email,
	}
	if err := s.db.WithContext(ctx).Create(&subscriber).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "subscribe email")
	}
	return nil
}

// Unsubscribe removes the address. Unknown addresses are a no-op.
func (s *service) Unsubscribe(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := s.db.WithContext(ctx).
		Where("email = ?", normalized).
		Delete(&models.NewsletterSubscriber{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unsubscribe email")
	}
	return nil
}
