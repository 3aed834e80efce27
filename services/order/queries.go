package order

import (
	"context"
	"fmt"

	"plantco/database/repository"
	"plantco/models"
	"plantco/utils"

	"go.uber.org/zap"
)

// Get returns an order to its customer, a vendor with items on it, or an admin.
func (s *DefaultOrderService) Get(ctx context.Context, actor models.Principal, orderID string) (*models.Order, error) {
	o, err := s.cached(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Is(o.CustomerID) && !(actor.Role == models.RoleVendor && o.HasVendor(actor.ID)) {
		return nil, utils.NewForbidden("not allowed to view this order")
	}
	return o, nil
}

func (s *DefaultOrderService) cached(ctx context.Context, orderID string) (*models.Order, error) {
	key := utils.OrderCachePrefix + orderID
	if s.Cache != nil {
		var o models.Order
		found, err := s.Cache.GetJSON(ctx, key, &o)
		if err != nil {
			s.Logger.Warn("order cache read failed", zap.String("orderId", orderID), zap.Error(err))
		}
		if found {
			return &o, nil
		}
	}
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, key, o); err != nil {
			s.Logger.Warn("order cache write failed", zap.String("orderId", orderID), zap.Error(err))
		}
	}
	return o, nil
}

func (s *DefaultOrderService) ListForCustomer(ctx context.Context, actor models.Principal, page, limit int) (*OrderPage, error) {
	if actor.ID == "" {
		return nil, utils.NewForbidden("an authenticated customer is required")
	}
	orders, total, err := s.Orders.ListByCustomer(ctx, actor.ID, page, limit)
	if err != nil {
		return nil, utils.NewInternal("failed to list orders", err)
	}
	return newPage(orders, total, page, limit), nil
}

// ListForVendor lists orders containing the vendor's items. Vendors see their
// own; admins pass vendorID.
func (s *DefaultOrderService) ListForVendor(ctx context.Context, actor models.Principal, vendorID string, page, limit int) (*OrderPage, error) {
	switch {
	case actor.IsAdmin():
		if vendorID == "" {
			return nil, utils.NewValidationError(utils.CodeInvalidInput, "vendorId is required")
		}
	case actor.Role == models.RoleVendor:
		if vendorID != "" && vendorID != actor.ID {
			return nil, utils.NewForbidden(fmt.Sprintf("cannot list orders of vendor %s", vendorID))
		}
		vendorID = actor.ID
	default:
		return nil, utils.NewForbidden("only vendors can list vendor orders")
	}
	orders, total, err := s.Orders.ListByVendor(ctx, vendorID, page, limit)
	if err != nil {
		return nil, utils.NewInternal("failed to list orders", err)
	}
	return newPage(orders, total, page, limit), nil
}

func newPage(orders []models.Order, total int64, page, limit int) *OrderPage {
	skip, size := repository.Page(page, limit)
	if orders == nil {
		orders = []models.Order{}
	}
	return &OrderPage{Orders: orders, Total: total, Page: int(skip/size) + 1, Limit: int(size)}
}
