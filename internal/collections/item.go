package collections

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/types"
)

// Kind selects which collection a controller or adapter operates on.
type Kind string

const (
	KindCart  Kind = "cart"
	KindLikes Kind = "likes"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

const localIDPrefix = "local-"

// Item is one entry in a cart or likes collection. LocalID is the database row
// id for remote-backed rows and a generated prefix-tagged token for guest rows.
type Item struct {
	LocalID   string                `json:"local_id"`
	ItemID    string                `json:"item_id"`
	Snapshot  types.ListingSnapshot `json:"snapshot"`
	Quantity  int                   `json:"quantity,omitempty"`
	CreatedAt time.Time             `json:"created_at,omitempty"`
}

// Owner scopes adapter operations. Exactly one of UserID or GuestToken is set.
type Owner struct {
	UserID     uuid.UUID
	GuestToken string
}

// Authenticated reports whether the owner is a signed-in user.
func (o Owner) Authenticated() bool {
	return o.UserID != uuid.Nil
}

// UserOwner builds an owner for an authenticated user.
func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: userID}
}

// GuestOwner builds an owner for an anonymous guest token.
func GuestOwner(token string) Owner {
	return Owner{GuestToken: token}
}

// NewLocalID generates a guest-side row identifier. The prefix distinguishes
// it from database ids so removal can skip the remote call entirely.
func NewLocalID() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read only fails when the OS entropy source is broken; fall
		// back to a uuid rather than panic inside a cart operation.
		return localIDPrefix + uuid.NewString()
	}
	return localIDPrefix + hex.EncodeToString(buf)
}

// IsLocalID reports whether the id carries the guest-generated token shape.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

// NormalizeItemID folds the loose representations an item id arrives in
// (numeric vs string, stray whitespace, mixed-case uuids) into one comparable
// form.
func NormalizeItemID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	if isDigits(trimmed) {
		stripped := strings.TrimLeft(trimmed, "0")
		if stripped == "" {
			return "0"
		}
		return stripped
	}
	return strings.ToLower(trimmed)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
