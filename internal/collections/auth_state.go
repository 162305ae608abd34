package collections

import (
	"sync"

	"github.com/google/uuid"
)

// Identity is the auth snapshot a controller binds its backend choice to.
// GuestToken is always populated so an anonymous session has a stable owner.
type Identity struct {
	UserID        uuid.UUID
	GuestToken    string
	Authenticated bool
}

// Owner maps the identity onto the adapter owner scope.
func (i Identity) Owner() Owner {
	if i.Authenticated {
		return UserOwner(i.UserID)
	}
	return GuestOwner(i.GuestToken)
}

// AuthState supplies the current identity and notifies subscribers on
// absent<->present transitions. It owns no collection data.
type AuthState interface {
	Current() Identity
	Pending() bool
	Subscribe(listener func(Identity)) (unsubscribe func())
}

// SessionAuthState is a mutable AuthState for one storefront session. Login
// and Logout flip the identity and fan out to subscribers; the collection
// controllers react by reloading from the other backend.
type SessionAuthState struct {
	mu        sync.Mutex
	identity  Identity
	pending   bool
	nextSubID int
	listeners map[int]func(Identity)
}

// NewSessionAuthState starts a session in guest mode under the given token.
func NewSessionAuthState(guestToken string) *SessionAuthState {
	return &SessionAuthState{
		identity:  Identity{GuestToken: guestToken},
		listeners: map[int]func(Identity){},
	}
}

// Current returns the identity snapshot.
func (s *SessionAuthState) Current() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Pending reports whether initialization is still in flight.
func (s *SessionAuthState) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// SetPending toggles the initialization flag.
func (s *SessionAuthState) SetPending(pending bool) {
	s.mu.Lock()
	s.pending = pending
	s.mu.Unlock()
}

// Login transitions the session to an authenticated identity.
func (s *SessionAuthState) Login(userID uuid.UUID) {
	s.mu.Lock()
	s.identity.UserID = userID
	s.identity.Authenticated = true
	snapshot := s.identity
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

// Logout drops the authenticated identity, returning to the guest token the
// session started with. Guest rows persisted before login become reachable
// again.
func (s *SessionAuthState) Logout() {
	s.mu.Lock()
	s.identity.UserID = uuid.Nil
	s.identity.Authenticated = false
	snapshot := s.identity
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

// Subscribe registers a transition listener and returns its removal func.
func (s *SessionAuthState) Subscribe(listener func(Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = listener
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *SessionAuthState) snapshotListeners() []func(Identity) {
	out := make([]func(Identity), 0, len(s.listeners))
	for _, listener := range s.listeners {
		out = append(out, listener)
	}
	return out
}

// StaticAuthState is an immutable AuthState used for request-scoped
// controllers on the HTTP surface, where the identity is fixed for the
// lifetime of one request.
type StaticAuthState struct {
	identity Identity
}

// NewStaticAuthState wraps a fixed identity.
func NewStaticAuthState(identity Identity) *StaticAuthState {
	return &StaticAuthState{identity: identity}
}

// Current returns the fixed identity.
func (s *StaticAuthState) Current() Identity {
	return s.identity
}

// Pending always reports false; static identities are fully resolved.
func (s *StaticAuthState) Pending() bool {
	return false
}

// Subscribe is a no-op; a static identity never transitions.
func (s *StaticAuthState) Subscribe(func(Identity)) func() {
	return func() {}
}
