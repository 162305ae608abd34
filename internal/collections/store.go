package collections

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyExists signals a uniqueness violation on insert. For likes it
	// is a benign outcome, not a failure.
	ErrAlreadyExists = errors.New("collection item already exists")
	// ErrNotFound signals that no row matched the owner/local id pair.
	ErrNotFound = errors.New("collection item not found")
)

// Patch carries the mutable fields of an item. Nil fields are left untouched.
type Patch struct {
	Quantity *int
}

// Store is the capability surface shared by the guest and remote adapters.
// The controller holds exactly one current store at a time and swaps it only
// on an auth transition, never per call.
type Store interface {
	List(ctx context.Context, owner Owner) ([]Item, error)
	Insert(ctx context.Context, owner Owner, item Item) (Item, error)
	Update(ctx context.Context, owner Owner, localID string, patch Patch) (Item, error)
	Remove(ctx context.Context, owner Owner, localID string) error
	Clear(ctx context.Context, owner Owner) error
}
