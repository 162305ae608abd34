package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/internal/catalog"
	"github.com/relovedshop/reloved-backend/internal/collections"
	"github.com/relovedshop/reloved-backend/pkg/config"
	"github.com/relovedshop/reloved-backend/pkg/db"
	"github.com/relovedshop/reloved-backend/pkg/db/models"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"github.com/relovedshop/reloved-backend/pkg/logger"
	"github.com/relovedshop/reloved-backend/pkg/mailer"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the checkout controller.
type Service interface {
	PlaceOrder(ctx context.Context, owner collections.Owner, req PlaceOrderRequest) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
}

type orderMailer interface {
	SendOrderNotification(ctx context.Context, notification mailer.OrderNotification) error
}

type service struct {
	db         *db.Client
	guestCart  collections.Store
	remoteCart collections.Store
	mailer     orderMailer
	validate   *validator.Validate
	logg       *logger.Logger
	currency   string
}

// ServiceParams bundles the dependencies for the checkout service.
type ServiceParams struct {
	DB         *db.Client
	GuestCart  collections.Store
	RemoteCart collections.Store
	Mailer     orderMailer
	Logger     *logger.Logger
	App        config.AppConfig
}

// NewService constructs the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.GuestCart == nil || params.RemoteCart == nil {
		return nil, fmt.Errorf("cart stores are required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer client is required")
	}
	currency := params.App.Currency
	if currency == "" {
		currency = "EUR"
	}
	return &service{
		db:         params.DB,
		guestCart:  params.GuestCart,
		remoteCart: params.RemoteCart,
		mailer:     params.Mailer,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logg:       params.Logger,
		currency:   currency,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, owner collections.Owner, req PlaceOrderRequest) (*OrderDTO, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order details")
	}

	cart := s.cartFor(owner)
	items, err := cart.List(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	listingIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ItemID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an item in your cart is no longer available")
		}
		listingIDs = append(listingIDs, id)
	}

	var order *models.Order
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := catalog.NewRepository(tx)
		orderRepo := NewRepository(tx)

		listings, err := catalogRepo.FindByIDs(ctx, listingIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listings")
		}
		byID := make(map[string]*models.Listing, len(listings))
		for i := range listings {
			byID[listings[i].ID.String()] = &listings[i]
		}

		total := decimal.Zero
		lines := make([]models.OrderLineItem, 0, len(items))
		for _, item := range items {
			listing, ok := byID[item.ItemID]
			if !ok || listing.Sold {
				return pkgerrors.New(pkgerrors.CodeConflict, "an item in your cart is no longer available")
			}
			quantity := item.Quantity
			if quantity < 1 {
				quantity = 1
			}
			subtotal := decimal.NewFromInt(int64(listing.PriceCents)).Mul(decimal.NewFromInt(int64(quantity)))
			total = total.Add(subtotal)
			lines = append(lines, models.OrderLineItem{
				ListingID:         listing.ID.String(),
				Title:             listing.Title,
				Brand:             listing.Brand,
				Size:              listing.Size,
				Quantity:          quantity,
				UnitPriceCents:    listing.PriceCents,
				LineSubtotalCents: int(subtotal.IntPart()),
			})
		}

		affected, err := catalogRepo.MarkSold(ctx, listingIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark listings sold")
		}
		if affected != int64(len(listingIDs)) {
			return pkgerrors.New(pkgerrors.CodeConflict, "an item in your cart is no longer available")
		}

		order = &models.Order{
			UserID:           userIDPtr(owner),
			BuyerName:        req.BuyerName,
			BuyerEmail:       req.BuyerEmail,
			BuyerPhone:       req.BuyerPhone,
			TotalCents:       int(total.IntPart()),
			Currency:         s.currency,
			PaymentProofName: req.PaymentProofName,
			Status:           enums.OrderStatusPendingPayment,
			Lines:            lines,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order stands on its own; a stale cart or a missed email is
	// recoverable and must not undo the sale.
	if err := cart.Clear(ctx, owner); err != nil && s.logg != nil {
		s.logg.Error(ctx, "clearing cart after checkout failed", err)
	}
	if err := s.mailer.SendOrderNotification(ctx, s.notificationFor(order)); err != nil && s.logg != nil {
		s.logg.Error(ctx, "order notification email failed", err)
	}

	return FromModel(order), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	orders, err := NewRepository(s.db.DB()).ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	repo := NewRepository(s.db.DB())
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if !transitionAllowed(order.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := repo.UpdateStatus(ctx, id, status.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	order.Status = status
	return FromModel(order), nil
}

var orderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPendingPayment: {enums.OrderStatusPaymentSent, enums.OrderStatusCancelled},
	enums.OrderStatusPaymentSent:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:      {enums.OrderStatusShipped, enums.OrderStatusCancelled},
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *service) cartFor(owner collections.Owner) collections.Store {
	if owner.Authenticated() {
		return s.remoteCart
	}
	return s.guestCart
}

func (s *service) notificationFor(order *models.Order) mailer.OrderNotification {
	lines := make([]mailer.OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, mailer.OrderLine{
			Title:      line.Title,
			Brand:      line.Brand,
			Size:       line.Size,
			Quantity:   line.Quantity,
			PriceCents: line.UnitPriceCents,
		})
	}
	notification := mailer.OrderNotification{
		OrderID:    order.ID.String(),
		BuyerName:  order.BuyerName,
		BuyerEmail: order.BuyerEmail,
		BuyerPhone: order.BuyerPhone,
		Lines:      lines,
		TotalCents: order.TotalCents,
		Currency:   order.Currency,
	}
	if order.PaymentProofName != nil {
		notification.PaymentProofName = *order.PaymentProofName
	}
	return notification
}

func userIDPtr(owner collections.Owner) *uuid.UUID {
	if !owner.Authenticated() {
		return nil
	}
	id := owner.UserID
	return &id
}
