// Package stats maintains vendor, provider and product counters in response
// to lifecycle events. Every handler is safe to run more than once.
package stats

import (
	"context"
	"fmt"
	"math"

	"plantco/database"
	bookingRepo "plantco/database/repository/booking"
	effectsRepo "plantco/database/repository/effects"
	orderRepo "plantco/database/repository/order"
	productRepo "plantco/database/repository/product"
	reviewRepo "plantco/database/repository/review"
	userRepo "plantco/database/repository/user"
	"plantco/models"
	"plantco/services/tasks"

	"go.uber.org/zap"
)

type Aggregator struct {
	Orders   orderRepo.OrderRepository
	Bookings bookingRepo.BookingRepository
	Products productRepo.ProductRepository
	Reviews  reviewRepo.ReviewRepository
	Users    userRepo.UserRepository
	Effects  effectsRepo.EffectRepository
	Tx       database.Transactor
	Logger   *zap.Logger
}

func DeliveredKey(orderID string, line int) string {
	return fmt.Sprintf("stats:delivered:%s:%d", orderID, line)
}

func RefundedKey(orderID string, line int) string {
	return fmt.Sprintf("stats:refunded:%s:%d", orderID, line)
}

// OnOrderDelivered credits each item's vendor with its units and revenue.
// Lines whose refund was already processed are skipped.
func (a *Aggregator) OnOrderDelivered(ctx context.Context, orderID string) error {
	order, err := a.Orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	return a.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		for i, item := range order.Items {
			refunded, err := a.Effects.Exists(ctx, RefundedKey(orderID, i))
			if err != nil {
				return err
			}
			if refunded {
				continue
			}
			fresh, err := a.Effects.Apply(ctx, DeliveredKey(orderID, i))
			if err != nil {
				return err
			}
			if !fresh {
				continue
			}
			if err := a.Users.IncVendorSales(ctx, item.VendorID, item.Quantity, item.TotalPrice); err != nil {
				return fmt.Errorf("credit vendor %s: %w", item.VendorID, err)
			}
		}
		return nil
	})
}

// OnOrderRefunded reverses the delivery credit of each item, if one was made.
func (a *Aggregator) OnOrderRefunded(ctx context.Context, orderID string) error {
	order, err := a.Orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	return a.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		for i, item := range order.Items {
			fresh, err := a.Effects.Apply(ctx, RefundedKey(orderID, i))
			if err != nil {
				return err
			}
			if !fresh {
				continue
			}
			credited, err := a.Effects.Exists(ctx, DeliveredKey(orderID, i))
			if err != nil {
				return err
			}
			if !credited {
				continue
			}
			if err := a.Users.IncVendorSales(ctx, item.VendorID, -item.Quantity, -item.TotalPrice); err != nil {
				return fmt.Errorf("debit vendor %s: %w", item.VendorID, err)
			}
		}
		return nil
	})
}

// OnBookingCompleted recomputes the provider's job counters.
func (a *Aggregator) OnBookingCompleted(ctx context.Context, providerID string) error {
	js, err := a.Bookings.ProviderJobStats(ctx, providerID)
	if err != nil {
		return fmt.Errorf("job stats for provider %s: %w", providerID, err)
	}
	rate := 0.0
	if js.Total > 0 {
		rate = math.Round(float64(js.Completed)/float64(js.Total)*10000) / 100
	}
	return a.Users.SetProviderJobStats(ctx, providerID, js.Total, js.Completed, rate)
}

// ReviewTarget names whose rating a new or moderated review affects.
type ReviewTarget struct {
	ProviderID string
	VendorID   string
	ProductID  string
}

// OnReviewAdded recomputes ratings from every counted review.
func (a *Aggregator) OnReviewAdded(ctx context.Context, t ReviewTarget) error {
	if t.ProviderID != "" {
		sum, err := a.Bookings.ProviderRating(ctx, t.ProviderID)
		if err != nil {
			return fmt.Errorf("rating for provider %s: %w", t.ProviderID, err)
		}
		if err := a.Users.SetProviderRating(ctx, t.ProviderID, sum.Average, sum.Count); err != nil {
			return err
		}
	}
	if t.ProductID != "" {
		sum, err := a.Reviews.ProductRating(ctx, t.ProductID)
		if err != nil {
			return fmt.Errorf("rating for product %s: %w", t.ProductID, err)
		}
		stats := models.ReviewStats{AverageRating: sum.Average, TotalReviews: sum.Count, Distribution: sum.Distribution}
		if err := a.Products.SetReviewStats(ctx, t.ProductID, stats); err != nil {
			return err
		}
	}
	if t.VendorID != "" {
		sum, err := a.Reviews.VendorRating(ctx, t.VendorID)
		if err != nil {
			return fmt.Errorf("rating for vendor %s: %w", t.VendorID, err)
		}
		if err := a.Users.SetVendorRating(ctx, t.VendorID, sum.Average, sum.Count); err != nil {
			return err
		}
	}
	return nil
}

// Handle runs the handler for a stats task type.
func (a *Aggregator) Handle(ctx context.Context, taskType string, p tasks.StatsPayload) error {
	switch taskType {
	case tasks.TypeOrderDelivered:
		return a.OnOrderDelivered(ctx, p.OrderID)
	case tasks.TypeOrderRefunded:
		return a.OnOrderRefunded(ctx, p.OrderID)
	case tasks.TypeBookingCompleted:
		return a.OnBookingCompleted(ctx, p.ProviderID)
	case tasks.TypeReviewAdded:
		return a.OnReviewAdded(ctx, ReviewTarget{ProviderID: p.ProviderID, VendorID: p.VendorID, ProductID: p.ProductID})
	default:
		return fmt.Errorf("unknown stats task %q", taskType)
	}
}
