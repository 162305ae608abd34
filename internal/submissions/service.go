package submissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"gorm.io/gorm"
)

// CreateSubmissionRequest is the seller payload for offering a garment.
type CreateSubmissionRequest struct {
	Title            string   `json:"title" validate:"required"`
	Brand            string   `json:"brand"`
	Size             string   `json:"size"`
	Condition        string   `json:"condition" validate:"required"`
	Description      *string  `json:"description,omitempty"`
	AskingPriceCents int      `json:"asking_price_cents" validate:"required,gt=0"`
	PhotoURLs        []string `json:"photo_urls" validate:"required,min=1,dive,url"`
}

// ReviewRequest is the admin payload for resolving a submission.
type ReviewRequest struct {
	Status string `json:"status" validate:"required"`
}

// SubmissionDTO is the transport shape for one submission.
type SubmissionDTO struct {
	ID               uuid.UUID              `json:"id"`
	Title            string                 `json:"title"`
	Brand            string                 `json:"brand,omitempty"`
	Size             string                 `json:"size,omitempty"`
	Condition        enums.Condition        `json:"condition"`
	Description      *string                `json:"description,omitempty"`
	AskingPriceCents int                    `json:"asking_price_cents"`
	PhotoURLs        []string               `json:"photo_urls"`
	Status           enums.SubmissionStatus `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Service defines the behavior needed by the submissions controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateSubmissionRequest) (*SubmissionDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]SubmissionDTO, error)
	Review(ctx context.Context, id uuid.UUID, req ReviewRequest) (*SubmissionDTO, error)
}

type service struct {
	db *gorm.DB
}

// ServiceParams bundles the dependencies for the submissions service.
type ServiceParams struct {
	DB *gorm.DB
}

// NewService constructs the submissions service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateSubmissionRequest) (*SubmissionDTO, error) {
	condition, err := enums.ParseCondition(req.Condition)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}
	if len(req.PhotoURLs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one photo is required")
	}

	submission := models.Submission{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            req.Title,
		Brand:            req.Brand,
		Size:             req.Size,
		Condition:        condition,
		Description:      req.Description,
		AskingPriceCents: req.AskingPriceCents,
		PhotoURLs:        req.PhotoURLs,
		Status:           enums.SubmissionStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create submission")
	}
	return fromModel(&submission), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]SubmissionDTO, error) {
	var rows []models.Submission
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list submissions")
	}
	out := make([]SubmissionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

// Review resolves a pending submission. Resolved submissions are final.
func (s *service) Review(ctx context.Context, id uuid.UUID, req ReviewRequest) (*SubmissionDTO, error) {
	status, err := enums.ParseSubmissionStatus(req.Status)
	if err != nil || status == enums.SubmissionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid review status")
	}

	var submission models.Submission
	if err := s.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load submission")
	}
	if submission.Status != enums.SubmissionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission is already resolved")
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", status.String()).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update submission status")
	}
	submission.Status = status
	return fromModel(&submission), nil
}

func fromModel(m *models.Submission) *SubmissionDTO {
	return &SubmissionDTO{
		ID:               m.ID,
		Title:            m.Title,
		Brand:            m.Brand,
		Size:             m.Size,
		Condition:        m.Condition,
		Description:      m.Description,
		AskingPriceCents: m.AskingPriceCents,
		PhotoURLs:        m.PhotoURLs,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
	}
}
