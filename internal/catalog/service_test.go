package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubListingRepo struct {
	listings []models.Listing
	created  *models.Listing
}

func (s *stubListingRepo) Create(_ context.Context, listing *models.Listing) error {
	s.created = listing
	return nil
}

func (s *stubListingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	for i := range s.listings {
		if s.listings[i].ID == id {
			return &s.listings[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubListingRepo) List(_ context.Context, _ ListListingsInput) ([]models.Listing, string, error) {
	return s.listings, "", nil
}

func TestServiceGetNotFound(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubListingRepo{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceListRejectsInvalidConditionFilter(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubListingRepo{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	bad := enums.Condition("mint")
	_, err = svc.List(context.Background(), ListListingsInput{
		Filters: ListingFilters{Condition: &bad},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateParsesEnums(t *testing.T) {
	repo := &stubListingRepo{}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	sex := "women"
	dto, err := svc.Create(context.Background(), CreateListingRequest{
		Title:      "Silk blouse",
		Brand:      "Acne",
		PriceCents: 6800,
		Size:       "S",
		Condition:  "excellent",
		Sex:        &sex,
		ImageURL:   "https://img.example.com/blouse.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Condition != enums.ConditionExcellent {
		t.Fatalf("unexpected condition %s", dto.Condition)
	}
	if repo.created == nil || repo.created.Sex == nil || *repo.created.Sex != enums.SexWomen {
		t.Fatalf("sex not persisted: %+v", repo.created)
	}
}

func TestServiceCreateRejectsUnknownCondition(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: &stubListingRepo{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateListingRequest{
		Title:      "Silk blouse",
		Brand:      "Acne",
		PriceCents: 6800,
		Size:       "S",
		Condition:  "mint",
		ImageURL:   "https://img.example.com/blouse.jpg",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
