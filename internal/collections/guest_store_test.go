package collections

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFakeNil = errors.New("fake redis: nil")

type fakeBlobStore struct {
	data map[string]string
	ttls map[string]time.Duration

	getErr error
	setErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		data: map[string]string{},
		ttls: map[string]time.Duration{},
	}
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.data[key]
	if !ok {
		return "", errFakeNil
	}
	return value, nil
}

func (f *fakeBlobStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeBlobStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeBlobStore) GuestCollectionKey(kind, token string) string {
	return "rl:guest:" + kind + ":" + token
}

func isFakeNil(err error) bool {
	return errors.Is(err, errFakeNil)
}

func newTestGuestStore(t *testing.T, kind Kind, redis *fakeBlobStore) *GuestStore {
	t.Helper()
	store, err := NewGuestStore(kind, redis, isFakeNil, time.Hour, nil)
	if err != nil {
		t.Fatalf("NewGuestStore returned error: %v", err)
	}
	return store
}

func TestGuestStoreListMissingKeyIsEmpty(t *testing.T) {
	store := newTestGuestStore(t, KindCart, newFakeBlobStore())

	items, err := store.List(context.Background(), GuestOwner("g-1"))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
}

func TestGuestStoreListDiscardsMalformedBlob(t *testing.T) {
	redis := newFakeBlobStore()
	redis.data["rl:guest:cart:g-1"] = "{not json"
	store := newTestGuestStore(t, KindCart, redis)

	items, err := store.List(context.Background(), GuestOwner("g-1"))
	if err != nil {
		t.Fatalf("malformed blob must not surface an error, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
}

func TestGuestStoreInsertRoundTrip(t *testing.T) {
	redis := newFakeBlobStore()
	store := newTestGuestStore(t, KindCart, redis)
	owner := GuestOwner("g-1")
	ctx := context.Background()

	inserted, err := store.Insert(ctx, owner, candidateItem("42"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if !IsLocalID(inserted.LocalID) {
		t.Fatalf("expected generated local id, got %q", inserted.LocalID)
	}

	items, err := store.List(ctx, owner)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || items[0].ItemID != "42" {
		t.Fatalf("unexpected list after insert: %+v", items)
	}
	if items[0].Snapshot.Title != "Vintage denim jacket" {
		t.Fatalf("snapshot not preserved: %+v", items[0].Snapshot)
	}
	if redis.ttls["rl:guest:cart:g-1"] != time.Hour {
		t.Fatalf("expected ttl refresh on write, got %v", redis.ttls["rl:guest:cart:g-1"])
	}
}

func TestGuestStoreUpdateMissingEntry(t *testing.T) {
	store := newTestGuestStore(t, KindCart, newFakeBlobStore())

	quantity := 3
	_, err := store.Update(context.Background(), GuestOwner("g-1"), "local-missing", Patch{Quantity: &quantity})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGuestStoreUpdatePatchesQuantity(t *testing.T) {
	store := newTestGuestStore(t, KindCart, newFakeBlobStore())
	owner := GuestOwner("g-1")
	ctx := context.Background()

	base := candidateItem("42")
	base.Quantity = 1
	inserted, err := store.Insert(ctx, owner, base)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	quantity := 4
	updated, err := store.Update(ctx, owner, inserted.LocalID, Patch{Quantity: &quantity})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", updated.Quantity)
	}

	items, _ := store.List(ctx, owner)
	if items[0].Quantity != 4 {
		t.Fatalf("update not persisted: %+v", items[0])
	}
}

func TestGuestStoreRemoveIsIdempotent(t *testing.T) {
	redis := newFakeBlobStore()
	store := newTestGuestStore(t, KindLikes, redis)
	owner := GuestOwner("g-1")
	ctx := context.Background()

	inserted, err := store.Insert(ctx, owner, candidateItem("42"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if err := store.Remove(ctx, owner, inserted.LocalID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if err := store.Remove(ctx, owner, inserted.LocalID); err != nil {
		t.Fatalf("second Remove must be a no-op, got %v", err)
	}

	items, _ := store.List(ctx, owner)
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
}

func TestGuestStoreClearDeletesBlob(t *testing.T) {
	redis := newFakeBlobStore()
	store := newTestGuestStore(t, KindCart, redis)
	owner := GuestOwner("g-1")
	ctx := context.Background()

	if _, err := store.Insert(ctx, owner, candidateItem("42")); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if err := store.Clear(ctx, owner); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, ok := redis.data["rl:guest:cart:g-1"]; ok {
		t.Fatal("blob should be deleted")
	}
}

func TestGuestStoreSurfacesBackendErrors(t *testing.T) {
	redis := newFakeBlobStore()
	redis.getErr = errors.New("redis: connection refused")
	store := newTestGuestStore(t, KindCart, redis)

	if _, err := store.List(context.Background(), GuestOwner("g-1")); err == nil {
		t.Fatal("backend error must surface to the caller")
	}
}
