package memoryRepo

import (
	"context"
	"fmt"
	"sort"

	"plantco/database/repository"
	orderRepo "plantco/database/repository/order"
	"plantco/models"
)

type Orders struct{ s *Store }

func (r *Orders) Create(ctx context.Context, o *models.Order) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("orders.Create"); err != nil {
		return err
	}
	if _, ok := r.s.orders[o.ID]; ok {
		return fmt.Errorf("order %s: %w", o.ID, repository.ErrDuplicate)
	}
	for _, existing := range r.s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return fmt.Errorf("order %s: %w", o.OrderNumber, repository.ErrDuplicate)
		}
	}
	r.s.orders[o.ID] = clone(*o)
	return nil
}

func (r *Orders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	defer r.s.lock(ctx)()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	out := clone(o)
	return &out, nil
}

func (r *Orders) UpdateStatus(ctx context.Context, id string, expectedVersion int64, change orderRepo.StatusChange) (*models.Order, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("orders.UpdateStatus"); err != nil {
		return nil, err
	}
	stored, ok := r.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return nil, fmt.Errorf("order %s at version %d: %w", id, expectedVersion, repository.ErrVersionConflict)
	}

	o := clone(stored)
	o.Status = change.Status
	if change.PaymentStatus != "" {
		o.PaymentStatus = change.PaymentStatus
	}
	if change.FulfillmentStatus != "" {
		o.FulfillmentStatus = change.FulfillmentStatus
	}
	if change.TrackingNumber != "" {
		o.Shipping.TrackingNumber = change.TrackingNumber
	}
	o.Timeline = append(o.Timeline, change.Entry)
	o.UpdatedAt = change.Entry.Date
	o.Version++
	r.s.orders[id] = clone(o)
	return &o, nil
}

func (r *Orders) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(ctx, page, limit, func(o *models.Order) bool { return o.CustomerID == customerID })
}

func (r *Orders) ListByVendor(ctx context.Context, vendorID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(ctx, page, limit, func(o *models.Order) bool { return o.HasVendor(vendorID) })
}

func (r *Orders) list(ctx context.Context, page, limit int, match func(*models.Order) bool) ([]models.Order, int64, error) {
	defer r.s.lock(ctx)()
	var all []models.Order
	for _, o := range r.s.orders {
		if match(&o) {
			all = append(all, clone(o))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page, limit), int64(len(all)), nil
}

func paginate[T any](all []T, page, limit int) []T {
	skip, size := repository.Page(page, limit)
	if skip >= int64(len(all)) {
		return nil
	}
	end := skip + size
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end]
}
