package order

import (
	"context"
	"time"

	"plantco/database"
	counterRepo "plantco/database/repository/counter"
	orderRepo "plantco/database/repository/order"
	productRepo "plantco/database/repository/product"
	"plantco/models"
	"plantco/services/events"
	"plantco/services/inventory"
	"plantco/services/notification"
	"plantco/services/payment"
	"plantco/services/stats"
	"plantco/utils"

	"go.uber.org/zap"
)

// OrderService defines the order lifecycle.
type OrderService interface {
	Create(ctx context.Context, actor models.Principal, req CreateOrderRequest) (*models.Order, error)
	Transition(ctx context.Context, actor models.Principal, orderID string, req TransitionRequest) (*models.Order, error)
	Cancel(ctx context.Context, actor models.Principal, orderID, note string) (*models.Order, error)
	Refund(ctx context.Context, actor models.Principal, orderID, note string) (*models.Order, error)
	MarkDelivered(ctx context.Context, actor models.Principal, orderID, note string) (*models.Order, error)
	Get(ctx context.Context, actor models.Principal, orderID string) (*models.Order, error)
	ListForCustomer(ctx context.Context, actor models.Principal, page, limit int) (*OrderPage, error)
	ListForVendor(ctx context.Context, actor models.Principal, vendorID string, page, limit int) (*OrderPage, error)
}

// ItemRequest is one requested line. The unit price always comes from the
// product at order time.
type ItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items         []ItemRequest       `json:"items" binding:"required,min=1,dive"`
	Pricing       models.Pricing      `json:"pricing"`
	Shipping      models.ShippingInfo `json:"shipping"`
	Billing       models.BillingInfo  `json:"billing"`
	Discounts     []models.Discount   `json:"discounts,omitempty"`
	CustomerNotes string              `json:"customerNotes,omitempty"`
}

type TransitionRequest struct {
	Status         models.OrderStatus `json:"status" binding:"required"`
	Note           string             `json:"note,omitempty"`
	TrackingNumber string             `json:"trackingNumber,omitempty"`
}

type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// DefaultOrderService implements OrderService. Payments, Stats, Notifier,
// Events and Cache may be nil.
type DefaultOrderService struct {
	Orders   orderRepo.OrderRepository
	Products productRepo.ProductRepository
	Ledger   *inventory.Ledger
	Counter  counterRepo.CounterRepository
	Tx       database.Transactor

	Payments payment.Refunder
	Stats    stats.Dispatcher
	Notifier notification.Notifier
	Events   events.Publisher
	Cache    utils.ReadCache
	Logger   *zap.Logger

	NumberPrefix string
	Now          func() time.Time
}

func (s *DefaultOrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultOrderService) prefix() string {
	if s.NumberPrefix == "" {
		return "PO"
	}
	return s.NumberPrefix
}
