package collections

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/relovedshop/reloved-backend/pkg/logger"
	"github.com/relovedshop/reloved-backend/pkg/metrics"
)

type state int

const (
	stateUninitialized state = iota
	stateLoading
	stateReady
)

const (
	backendGuest  = "guest"
	backendRemote = "remote"

	outcomeOK    = "ok"
	outcomeError = "error"
	outcomeNoop  = "noop"
)

// ControllerParams groups dependencies for a collection controller.
type ControllerParams struct {
	Kind    Kind
	Guest   Store
	Remote  Store
	Auth    AuthState
	Sink    Sink
	Metrics *metrics.CollectionMetrics
	Logger  *logger.Logger
}

// Controller owns the canonical in-memory list for one collection during a
// session. It selects the guest or remote adapter from the auth state, swaps
// it only on an auth transition, and converts every persistence failure into
// user feedback instead of an error. The mutex guards memory safety of the
// canonical list; it deliberately does not serialize overlapping operations.
type Controller struct {
	kind    Kind
	guest   Store
	remote  Store
	auth    AuthState
	sink    Sink
	metrics *metrics.CollectionMetrics
	logg    *logger.Logger

	mu       sync.Mutex
	st       state
	current  Store
	owner    Owner
	items    []Item
	inflight map[string]struct{}

	unsubscribe func()
}

// NewController wires a controller and subscribes it to auth transitions.
func NewController(params ControllerParams) (*Controller, error) {
	if params.Kind != KindCart && params.Kind != KindLikes {
		return nil, errors.New("collection kind is required")
	}
	if params.Guest == nil {
		return nil, errors.New("guest store is required")
	}
	if params.Remote == nil {
		return nil, errors.New("remote store is required")
	}
	if params.Auth == nil {
		return nil, errors.New("auth state is required")
	}
	if params.Sink == nil {
		return nil, errors.New("feedback sink is required")
	}

	c := &Controller{
		kind:     params.Kind,
		guest:    params.Guest,
		remote:   params.Remote,
		auth:     params.Auth,
		sink:     params.Sink,
		metrics:  params.Metrics,
		logg:     params.Logger,
		inflight: map[string]struct{}{},
	}
	c.unsubscribe = params.Auth.Subscribe(func(Identity) {
		c.Reload(context.Background())
	})
	return c, nil
}

// Close detaches the controller from auth transitions.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Reload re-enters Loading, rebinds the adapter to the current identity, and
// repopulates the canonical list from exactly one backend. A failed load
// settles into Ready with an empty list; the UI gates on Loading, not on a
// separate error state.
func (c *Controller) Reload(ctx context.Context) {
	identity := c.auth.Current()
	store, backend := c.selectStore(identity)
	owner := identity.Owner()

	c.mu.Lock()
	c.st = stateLoading
	c.current = store
	c.owner = owner
	c.mu.Unlock()

	start := time.Now()
	items, err := store.List(ctx, owner)
	c.metrics.ObserveLoad(c.kind.String(), backend, time.Since(start))

	c.mu.Lock()
	// A transition may have re-bound the controller while this load was in
	// flight; only the load matching the current owner may settle the list.
	if c.owner != owner {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.items = []Item{}
	} else {
		c.items = items
	}
	c.st = stateReady
	c.mu.Unlock()

	if err != nil {
		c.metrics.IncOp(c.kind.String(), "load", outcomeError)
		c.logError(ctx, "loading collection failed", err)
		c.publish(ctx, Feedback{
			Severity:    SeverityDestructive,
			Title:       c.label() + " unavailable",
			Description: "We couldn't load your saved items. Please try again.",
		})
		return
	}
	c.metrics.IncOp(c.kind.String(), "load", outcomeOK)
}

// Loading reports whether the canonical list is being (re)populated.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st != stateReady
}

// Items returns a copy of the canonical list.
func (c *Controller) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Contains reports whether the listing is already in the collection, using
// loose id normalization since callers hand ids around as numbers or strings.
func (c *Controller) Contains(itemID string) bool {
	normalized := NormalizeItemID(itemID)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if NormalizeItemID(item.ItemID) == normalized {
			return true
		}
	}
	return false
}

// Add inserts the candidate or folds it into an existing entry. The boolean
// tells the caller whether the action landed; failures never propagate as
// errors past this boundary.
func (c *Controller) Add(ctx context.Context, candidate Item) bool {
	c.ensureLoaded(ctx)

	normalized := NormalizeItemID(candidate.ItemID)
	if normalized == "" {
		c.publish(ctx, Feedback{
			Severity:    SeverityDestructive,
			Title:       "Couldn't save item",
			Description: "The item is missing an identifier.",
		})
		c.metrics.IncOp(c.kind.String(), "add", outcomeError)
		return false
	}

	c.mu.Lock()
	if _, busy := c.inflight[normalized]; busy {
		c.mu.Unlock()
		c.metrics.IncOp(c.kind.String(), "add", outcomeNoop)
		return false
	}
	c.inflight[normalized] = struct{}{}
	existing, found := c.lookupLocked(normalized)
	store, owner := c.current, c.owner
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, normalized)
		c.mu.Unlock()
	}()

	if found {
		if c.kind == KindCart {
			return c.setQuantity(ctx, store, owner, existing.LocalID, existing.Quantity+1)
		}
		c.publish(ctx, Feedback{
			Severity:    SeverityNeutral,
			Title:       "Already liked",
			Description: "This item is already in your likes.",
		})
		c.metrics.IncOp(c.kind.String(), "add", outcomeNoop)
		return true
	}

	candidate.ItemID = normalized
	if c.kind == KindCart && candidate.Quantity < 1 {
		candidate.Quantity = 1
	}
	if c.kind == KindLikes && candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now().UTC()
	}

	inserted, err := store.Insert(ctx, owner, candidate)
	if err != nil {
		if c.kind == KindLikes && errors.Is(err, ErrAlreadyExists) {
			// The pre-check missed a row another session inserted; the
			// constraint makes the outcome benign.
			c.publish(ctx, Feedback{
				Severity:    SeverityNeutral,
				Title:       "Already liked",
				Description: "This item is already in your likes.",
			})
			c.metrics.IncOp(c.kind.String(), "add", outcomeNoop)
			return true
		}
		c.logError(ctx, "persisting collection item failed", err)
		c.publish(ctx, Feedback{
			Severity:    SeverityDestructive,
			Title:       "Couldn't save item",
			Description: "Something went wrong while saving. Please try again.",
		})
		c.metrics.IncOp(c.kind.String(), "add", outcomeError)
		return false
	}

	c.mu.Lock()
	if c.owner == owner {
		c.items = append(c.items, inserted)
	}
	c.mu.Unlock()

	c.publish(ctx, Feedback{
		Severity:    SeverityNeutral,
		Title:       c.addedTitle(),
		Description: inserted.Snapshot.Title,
	})
	c.metrics.IncOp(c.kind.String(), "add", outcomeOK)
	return true
}

// SetQuantity updates a cart entry's quantity. Values below one are rejected
// before any persistence attempt.
func (c *Controller) SetQuantity(ctx context.Context, localID string, quantity int) bool {
	c.ensureLoaded(ctx)

	c.mu.Lock()
	store, owner := c.current, c.owner
	c.mu.Unlock()

	return c.setQuantity(ctx, store, owner, localID, quantity)
}

func (c *Controller) setQuantity(ctx context.Context, store Store, owner Owner, localID string, quantity int) bool {
	if c.kind != KindCart {
		return false
	}
	if quantity < 1 {
		c.publish(ctx, Feedback{
			Severity:    SeverityDestructive,
			Title:       "Invalid quantity",
			Description: "Quantity must be at least 1.",
		})
		c.metrics.IncOp(c.kind.String(), "set_quantity", outcomeNoop)
		return false
	}

	updated, err := store.Update(ctx, owner, localID, Patch{Quantity: &quantity})
	if err != nil {
		c.logError(ctx, "updating cart quantity failed", err)
		c.publish(ctx, Feedback{
			Severity:    SeverityDestructive,
			Title:       "Couldn't update cart",
			Description: "Something went wrong while saving. Please try again.",
		})
		c.metrics.IncOp(c.kind.String(), "set_quantity", outcomeError)
		return false
	}

	c.mu.Lock()
	if c.owner == owner {
		for i := range c.items {
			if c.items[i].LocalID == localID {
				c.items[i].Quantity = updated.Quantity
				break
			}
		}
	}
	c.mu.Unlock()

	c.publish(ctx, Feedback{
		Severity:    SeverityNeutral,
		Title:       "Cart updated",
		Description: updated.Snapshot.Title,
	})
	c.metrics.IncOp(c.kind.String(), "set_quantity", outcomeOK)
	return true
}

// Remove drops an entry, skipping the remote call when the id still carries
// the guest token shape and therefore never existed remotely. Removal
// feedback is reported even when the persistence call is skipped.
func (c *Controller) Remove(ctx context.Context, localID string) {
	c.ensureLoaded(ctx)

	c.mu.Lock()
	store, owner := c.current, c.owner
	c.mu.Unlock()

	skipPersist := owner.Authenticated() && IsLocalID(localID)
	if !skipPersist {
		if err := store.Remove(ctx, owner, localID); err != nil {
			c.logError(ctx, "removing collection item failed", err)
			c.publish(ctx, Feedback{
				Severity:    SeverityDestructive,
				Title:       "Couldn't remove item",
				Description: "Something went wrong while saving. Please try again.",
			})
			c.metrics.IncOp(c.kind.String(), "remove", outcomeError)
			return
		}
	}

	c.mu.Lock()
	if c.owner == owner {
		kept := c.items[:0]
		for _, item := range c.items {
			if item.LocalID != localID {
				kept = append(kept, item)
			}
		}
		c.items = kept
	}
	c.mu.Unlock()

	c.publish(ctx, Feedback{
		Severity:    SeverityNeutral,
		Title:       c.removedTitle(),
		Description: "",
	})
	c.metrics.IncOp(c.kind.String(), "remove", outcomeOK)
}

// Clear wipes the current backend and empties the canonical list.
func (c *Controller) Clear(ctx context.Context) {
	c.ensureLoaded(ctx)

	c.mu.Lock()
	store, owner := c.current, c.owner
	c.mu.Unlock()

	if err := store.Clear(ctx, owner); err != nil {
		c.logError(ctx, "clearing collection failed", err)
		c.publish(ctx, Feedback{
			Severity:    SeverityDestructive,
			Title:       "Couldn't clear " + c.label(),
			Description: "Something went wrong while saving. Please try again.",
		})
		c.metrics.IncOp(c.kind.String(), "clear", outcomeError)
		return
	}

	c.mu.Lock()
	if c.owner == owner {
		c.items = []Item{}
	}
	c.mu.Unlock()

	c.publish(ctx, Feedback{
		Severity:    SeverityNeutral,
		Title:       c.clearedTitle(),
		Description: "",
	})
	c.metrics.IncOp(c.kind.String(), "clear", outcomeOK)
}

func (c *Controller) ensureLoaded(ctx context.Context) {
	c.mu.Lock()
	uninitialized := c.st == stateUninitialized
	c.mu.Unlock()
	if uninitialized {
		c.Reload(ctx)
	}
}

func (c *Controller) lookupLocked(normalizedItemID string) (Item, bool) {
	for _, item := range c.items {
		if NormalizeItemID(item.ItemID) == normalizedItemID {
			return item, true
		}
	}
	return Item{}, false
}

func (c *Controller) selectStore(identity Identity) (Store, string) {
	if identity.Authenticated {
		return c.remote, backendRemote
	}
	return c.guest, backendGuest
}

func (c *Controller) publish(ctx context.Context, fb Feedback) {
	c.sink.Publish(ctx, fb)
}

func (c *Controller) logError(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Error(c.logg.WithField(ctx, "kind", c.kind.String()), msg, err)
}

func (c *Controller) label() string {
	if c.kind == KindCart {
		return "cart"
	}
	return "likes"
}

func (c *Controller) addedTitle() string {
	if c.kind == KindCart {
		return "Added to cart"
	}
	return "Added to likes"
}

func (c *Controller) removedTitle() string {
	if c.kind == KindCart {
		return "Removed from cart"
	}
	return "Removed from likes"
}

func (c *Controller) clearedTitle() string {
	if c.kind == KindCart {
		return "Cart cleared"
	}
	return "Likes cleared"
}
