package collections

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/relovedshop/reloved-backend/pkg/logger"
)

// guestBlobStore is the slice of the Redis client the guest adapter needs.
type guestBlobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestCollectionKey(kind, token string) string
}

// GuestStore keeps one JSON array blob per (guest token, kind) under a fixed
// Redis key, mirroring how the storefront persists anonymous sessions. Every
// mutation rewrites the whole blob; there is no partial-write guarantee.
type GuestStore struct {
	kind  Kind
	redis guestBlobStore
	isNil func(error) bool
	ttl   time.Duration
	logg  *logger.Logger
}

// NewGuestStore builds the guest adapter for one collection kind.
func NewGuestStore(kind Kind, redis guestBlobStore, isNil func(error) bool, ttl time.Duration, logg *logger.Logger) (*GuestStore, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis store is required")
	}
	if isNil == nil {
		return nil, fmt.Errorf("nil-error predicate is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("guest collection ttl must be positive")
	}
	return &GuestStore{
		kind:  kind,
		redis: redis,
		isNil: isNil,
		ttl:   ttl,
		logg:  logg,
	}, nil
}

// List loads the blob and parses it. A missing key or malformed payload is
// treated as "no data"; the parse failure is logged, never surfaced.
func (s *GuestStore) List(ctx context.Context, owner Owner) ([]Item, error) {
	if owner.GuestToken == "" {
		return nil, fmt.Errorf("guest token is required")
	}

	raw, err := s.redis.Get(ctx, s.key(owner))
	if err != nil {
		if s.isNil(err) {
			return []Item{}, nil
		}
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "kind", s.kind.String()), "discarding malformed guest collection blob")
		}
		return []Item{}, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Insert assigns a local id and rewrites the blob with the item appended.
func (s *GuestStore) Insert(ctx context.Context, owner Owner, item Item) (Item, error) {
	items, err := s.List(ctx, owner)
	if err != nil {
		return Item{}, err
	}

	if item.LocalID == "" {
		item.LocalID = NewLocalID()
	}
	items = append(items, item)

	if err := s.save(ctx, owner, items); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Update patches the matching entry and rewrites the full blob.
func (s *GuestStore) Update(ctx context.Context, owner Owner, localID string, patch Patch) (Item, error) {
	items, err := s.List(ctx, owner)
	if err != nil {
		return Item{}, err
	}

	for i := range items {
		if items[i].LocalID != localID {
			continue
		}
		if patch.Quantity != nil {
			items[i].Quantity = *patch.Quantity
		}
		if err := s.save(ctx, owner, items); err != nil {
			return Item{}, err
		}
		return items[i], nil
	}
	return Item{}, ErrNotFound
}

// Remove drops the matching entry. Removing an absent id is not an error.
func (s *GuestStore) Remove(ctx context.Context, owner Owner, localID string) error {
	items, err := s.List(ctx, owner)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.LocalID != localID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, owner, kept)
}

// Clear deletes the blob outright.
func (s *GuestStore) Clear(ctx context.Context, owner Owner) error {
	if owner.GuestToken == "" {
		return fmt.Errorf("guest token is required")
	}
	return s.redis.Del(ctx, s.key(owner))
}

func (s *GuestStore) save(ctx context.Context, owner Owner, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding guest collection: %w", err)
	}
	return s.redis.Set(ctx, s.key(owner), string(payload), s.ttl)
}

func (s *GuestStore) key(owner Owner) string {
	return s.redis.GuestCollectionKey(s.kind.String(), owner.GuestToken)
}
