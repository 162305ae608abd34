package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the listings controller.
type Service interface {
	List(ctx context.Context, input ListListingsInput) (*ListingPage, error)
	Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error)
	Create(ctx context.Context, req CreateListingRequest) (*ListingDTO, error)
}

type listingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	List(ctx context.Context, input ListListingsInput) ([]models.Listing, string, error)
}

type service struct {
	repo listingRepository
}

// ServiceParams bundles the dependencies for the catalog service.
type ServiceParams struct {
	Repo listingRepository
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("listing repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, input ListListingsInput) (*ListingPage, error) {
	if input.Filters.Condition != nil && !input.Filters.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition filter")
	}
	if input.Filters.Sex != nil && !input.Filters.Sex.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sex filter")
	}

	rows, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list listings")
	}

	listings := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		listings = append(listings, FromModel(&rows[i]))
	}
	return &ListingPage{
		Listings:   listings,
		NextCursor: nextCursor,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
	}
	dto := FromModel(listing)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req CreateListingRequest) (*ListingDTO, error) {
	condition, err := enums.ParseCondition(req.Condition)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}

	var sex *enums.Sex
	if req.Sex != nil {
		parsed, err := enums.ParseSex(*req.Sex)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sex")
		}
		sex = &parsed
	}

	listing := &models.Listing{
		Title:       req.Title,
		Brand:       req.Brand,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Size:        req.Size,
		Condition:   condition,
		Sex:         sex,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create listing")
	}
	dto := FromModel(listing)
	return &dto, nil
}
