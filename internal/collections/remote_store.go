package collections

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/db"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"gorm.io/gorm"
)

const likedItemsUniqueConstraint = "liked_items_user_listing_key"

// RemoteStore persists collection rows in Postgres, scoped by the owning
// user. All operations are single-attempt; the controller decides what a
// failure means for the user.
type RemoteStore struct {
	kind Kind
	db   *gorm.DB
}

// NewRemoteStore binds the remote adapter for one collection kind.
func NewRemoteStore(kind Kind, conn *gorm.DB) (*RemoteStore, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	if kind != KindCart && kind != KindLikes {
		return nil, fmt.Errorf("unknown collection kind %q", kind)
	}
	return &RemoteStore{kind: kind, db: conn}, nil
}

// List selects all rows owned by the user, oldest first.
func (s *RemoteStore) List(ctx context.Context, owner Owner) ([]Item, error) {
	userID, err := requireUser(owner)
	if err != nil {
		return nil, err
	}

	if s.kind == KindCart {
		var rows []models.CartItem
		if err := s.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(&rows).Error; err != nil {
			return nil, err
		}
		items := make([]Item, 0, len(rows))
		for _, row := range rows {
			items = append(items, cartRowToItem(row))
		}
		return items, nil
	}

	var rows []models.LikedItem
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, likedRowToItem(row))
	}
	return items, nil
}

// Insert creates one row and returns it with the backend-assigned id. A
// uniqueness violation maps to ErrAlreadyExists.
func (s *RemoteStore) Insert(ctx context.Context, owner Owner, item Item) (Item, error) {
	userID, err := requireUser(owner)
	if err != nil {
		return Item{}, err
	}

	if s.kind == KindCart {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		row := models.CartItem{
			UserID:    userID,
			ListingID: item.ItemID,
			Snapshot:  item.Snapshot,
			Quantity:  quantity,
		}
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return Item{}, ErrAlreadyExists
			}
			return Item{}, err
		}
		return cartRowToItem(row), nil
	}

	row := models.LikedItem{
		UserID:    userID,
		ListingID: item.ItemID,
		Snapshot:  item.Snapshot,
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err, likedItemsUniqueConstraint) || db.IsUniqueViolation(err, "") {
			return Item{}, ErrAlreadyExists
		}
		return Item{}, err
	}
	return likedRowToItem(row), nil
}

// Update patches one cart row scoped to both the row id and the owning user,
// so a forged local id can never mutate another user's row.
func (s *RemoteStore) Update(ctx context.Context, owner Owner, localID string, patch Patch) (Item, error) {
	userID, err := requireUser(owner)
	if err != nil {
		return Item{}, err
	}
	if s.kind != KindCart {
		return Item{}, fmt.Errorf("update is only defined for the cart collection")
	}

	rowID, err := uuid.Parse(localID)
	if err != nil {
		return Item{}, ErrNotFound
	}

	updates := map[string]any{}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if len(updates) == 0 {
		return Item{}, fmt.Errorf("empty patch")
	}

	result := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", rowID, userID).
		Updates(updates)
	if result.Error != nil {
		return Item{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Item{}, ErrNotFound
	}

	var row models.CartItem
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", rowID, userID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return cartRowToItem(row), nil
}

// Remove deletes one row scoped to the row id and owning user. Removing a
// non-existent id is indistinguishable from success.
func (s *RemoteStore) Remove(ctx context.Context, owner Owner, localID string) error {
	userID, err := requireUser(owner)
	if err != nil {
		return err
	}

	rowID, err := uuid.Parse(localID)
	if err != nil {
		return nil
	}

	if s.kind == KindCart {
		return s.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", rowID, userID).
			Delete(&models.CartItem{}).Error
	}
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", rowID, userID).
		Delete(&models.LikedItem{}).Error
}

// Clear deletes all rows owned by the user.
func (s *RemoteStore) Clear(ctx context.Context, owner Owner) error {
	userID, err := requireUser(owner)
	if err != nil {
		return err
	}

	if s.kind == KindCart {
		return s.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Delete(&models.CartItem{}).Error
	}
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.LikedItem{}).Error
}

func requireUser(owner Owner) (uuid.UUID, error) {
	if !owner.Authenticated() {
		return uuid.Nil, fmt.Errorf("remote store requires an authenticated owner")
	}
	return owner.UserID, nil
}

func cartRowToItem(row models.CartItem) Item {
	return Item{
		LocalID:   row.ID.String(),
		ItemID:    row.ListingID,
		Snapshot:  row.Snapshot,
		Quantity:  row.Quantity,
		CreatedAt: row.CreatedAt,
	}
}

func likedRowToItem(row models.LikedItem) Item {
	return Item{
		LocalID:   row.ID.String(),
		ItemID:    row.ListingID,
		Snapshot:  row.Snapshot,
		CreatedAt: row.CreatedAt,
	}
}
