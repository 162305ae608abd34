package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes listing persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, listing *models.Listing) error {
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindByID loads one listing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindByIDs loads the listings matching the provided ids, in no fixed order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	var listings []models.Listing
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// List returns one filtered page of unsold listings, newest first.
func (r *Repository) List(ctx context.Context, input ListListingsInput) ([]models.Listing, string, error) {
	pageSize := pagination.NormalizeLimit(input.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Limit)

	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Listing{})
	qb = applyFilters(qb, input.Filters)

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Listing
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// MarkSold flips the sold flag on the provided listings. Returns the number of
// rows that were still unsold.
func (r *Repository) MarkSold(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id IN ? AND sold = ?", ids, false).
		Update("sold", true)
	return result.RowsAffected, result.Error
}

func applyFilters(qb *gorm.DB, filters ListingFilters) *gorm.DB {
	if !filters.IncludeSold {
		qb = qb.Where("sold = ?", false)
	}
	if filters.Brand != nil {
		qb = qb.Where("LOWER(brand) = ?", strings.ToLower(*filters.Brand))
	}
	if filters.Size != nil {
		qb = qb.Where("size = ?", *filters.Size)
	}
	if filters.Condition != nil {
		qb = qb.Where("condition = ?", *filters.Condition)
	}
	if filters.Sex != nil {
		qb = qb.Where("sex = ?", *filters.Sex)
	}
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *filters.PriceMinCents)
	}
	if filters.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *filters.PriceMaxCents)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(brand) LIKE ?)", pattern, pattern)
	}
	return qb
}
