package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/internal/collections"
	"github.com/relovedshop/reloved-backend/pkg/config"
	"github.com/relovedshop/reloved-backend/pkg/db"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"github.com/relovedshop/reloved-backend/pkg/mailer"
	"github.com/relovedshop/reloved-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  brand TEXT NOT NULL,
  description TEXT,
  price_cents INTEGER NOT NULL,
  size TEXT NOT NULL,
  condition TEXT NOT NULL,
  sex TEXT,
  category TEXT,
  image_url TEXT NOT NULL,
  sold INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  buyer_name TEXT NOT NULL,
  buyer_email TEXT NOT NULL,
  buyer_phone TEXT NOT NULL,
  total_cents INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'EUR',
  payment_proof_name TEXT,
  status TEXT NOT NULL DEFAULT 'pending_payment',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  listing_id TEXT NOT NULL,
  title TEXT NOT NULL,
  brand TEXT,
  size TEXT,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  line_subtotal_cents INTEGER NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type memoryCart struct {
	items    []collections.Item
	cleared  bool
	clearErr error
}

func (m *memoryCart) List(context.Context, collections.Owner) ([]collections.Item, error) {
	return m.items, nil
}

func (m *memoryCart) Insert(_ context.Context, _ collections.Owner, item collections.Item) (collections.Item, error) {
	m.items = append(m.items, item)
	return item, nil
}

func (m *memoryCart) Update(context.Context, collections.Owner, string, collections.Patch) (collections.Item, error) {
	return collections.Item{}, collections.ErrNotFound
}

func (m *memoryCart) Remove(context.Context, collections.Owner, string) error {
	return nil
}

func (m *memoryCart) Clear(context.Context, collections.Owner) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	m.items = nil
	return nil
}

type stubMailer struct {
	sent    []mailer.OrderNotification
	sendErr error
}

func (s *stubMailer) SendOrderNotification(_ context.Context, n mailer.OrderNotification) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, n)
	return nil
}

func seedCheckoutListing(t *testing.T, conn *gorm.DB, priceCents int) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		ID:         uuid.New(),
		Title:      "Wool coat",
		Brand:      "Acne",
		PriceCents: priceCents,
		Size:       "M",
		Condition:  enums.ConditionGood,
		ImageURL:   "https://img.example.com/coat.jpg",
	}
	require.NoError(t, conn.Create(listing).Error)
	return listing
}

func cartItemFor(listing *models.Listing, quantity int) collections.Item {
	return collections.Item{
		LocalID:  collections.NewLocalID(),
		ItemID:   listing.ID.String(),
		Quantity: quantity,
		Snapshot: types.ListingSnapshot{
			Title:      listing.Title,
			Brand:      listing.Brand,
			PriceCents: listing.PriceCents,
			Size:       listing.Size,
			Condition:  listing.Condition.String(),
		},
	}
}

func buildCheckoutService(t *testing.T, conn *gorm.DB, cart *memoryCart, mail *stubMailer) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:         db.NewWithConn(conn),
		GuestCart:  cart,
		RemoteCart: &memoryCart{},
		Mailer:     mail,
		App:        config.AppConfig{Currency: "EUR"},
	})
	require.NoError(t, err)
	return svc
}

func validOrderRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		BuyerName:  "Robin Shopper",
		BuyerEmail: "robin@example.com",
		BuyerPhone: "+34600000000",
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	listing := seedCheckoutListing(t, conn, 4500)
	cart := &memoryCart{items: []collections.Item{cartItemFor(listing, 1)}}
	mail := &stubMailer{}
	svc := buildCheckoutService(t, conn, cart, mail)

	order, err := svc.PlaceOrder(context.Background(), collections.GuestOwner("g-1"), validOrderRequest())
	require.NoError(t, err)

	assert.Equal(t, 4500, order.TotalCents)
	assert.Equal(t, enums.OrderStatusPendingPayment, order.Status)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, listing.ID.String(), order.Lines[0].ListingID)

	var reloaded models.Listing
	require.NoError(t, conn.First(&reloaded, "id = ?", listing.ID).Error)
	assert.True(t, reloaded.Sold, "listing must be marked sold")

	assert.True(t, cart.cleared, "cart must be cleared after checkout")
	require.Len(t, mail.sent, 1)
	assert.Equal(t, order.ID.String(), mail.sent[0].OrderID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := buildCheckoutService(t, conn, &memoryCart{}, &stubMailer{})

	_, err := svc.PlaceOrder(context.Background(), collections.GuestOwner("g-1"), validOrderRequest())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPlaceOrderSoldItemConflicts(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	listing := seedCheckoutListing(t, conn, 4500)
	require.NoError(t, conn.Model(&models.Listing{}).Where("id = ?", listing.ID).Update("sold", true).Error)

	cart := &memoryCart{items: []collections.Item{cartItemFor(listing, 1)}}
	mail := &stubMailer{}
	svc := buildCheckoutService(t, conn, cart, mail)

	_, err := svc.PlaceOrder(context.Background(), collections.GuestOwner("g-1"), validOrderRequest())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	assert.False(t, cart.cleared, "cart must survive a failed checkout")
	assert.Empty(t, mail.sent)

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "no order row may exist after rollback")
}

func TestPlaceOrderMailerFailureDoesNotUndoSale(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	listing := seedCheckoutListing(t, conn, 4500)
	cart := &memoryCart{items: []collections.Item{cartItemFor(listing, 1)}}
	mail := &stubMailer{sendErr: errors.New("function timeout")}
	svc := buildCheckoutService(t, conn, cart, mail)

	order, err := svc.PlaceOrder(context.Background(), collections.GuestOwner("g-1"), validOrderRequest())
	require.NoError(t, err)
	require.NotNil(t, order)

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPlaceOrderValidatesBuyer(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := buildCheckoutService(t, conn, &memoryCart{}, &stubMailer{})

	_, err := svc.PlaceOrder(context.Background(), collections.GuestOwner("g-1"), PlaceOrderRequest{
		BuyerName:  "Robin",
		BuyerEmail: "not-an-email",
		BuyerPhone: "+34600000000",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStatusTransitions(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	listing := seedCheckoutListing(t, conn, 4500)
	cart := &memoryCart{items: []collections.Item{cartItemFor(listing, 1)}}
	svc := buildCheckoutService(t, conn, cart, &stubMailer{})

	order, err := svc.PlaceOrder(context.Background(), collections.GuestOwner("g-1"), validOrderRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "payment_sent"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaymentSent, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "shipped"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}
