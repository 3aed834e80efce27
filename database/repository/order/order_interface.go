package orderRepo

import (
	"context"

	"plantco/models"
)

// StatusChange is applied atomically with a timeline append and a version bump.
// Empty payment or fulfillment values leave the stored value unchanged.
type StatusChange struct {
	Status            models.OrderStatus
	PaymentStatus     models.PaymentStatus
	FulfillmentStatus models.FulfillmentStatus
	TrackingNumber    string
	Entry             models.TimelineEntry
}

// OrderRepository defines methods for order data access. Orders are never deleted.
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// UpdateStatus applies change only if the stored version equals
	// expectedVersion, and returns the updated order. A stale version fails
	// with repository.ErrVersionConflict.
	UpdateStatus(ctx context.Context, id string, expectedVersion int64, change StatusChange) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]models.Order, int64, error)
	ListByVendor(ctx context.Context, vendorID string, page, limit int) ([]models.Order, int64, error)
}
