package order

import (
	"context"
	"errors"
	"fmt"

	"plantco/database/repository"
	orderRepo "plantco/database/repository/order"
	"plantco/models"
	"plantco/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxVersionRetries = 3

// Transition moves an order along the status table. Cancellation and refund
// return every line to stock in the same unit of work as the status change.
// Refunds always go through Refund so the gateway is settled first.
func (s *DefaultOrderService) Transition(ctx context.Context, actor models.Principal, orderID string, req TransitionRequest) (*models.Order, error) {
	if req.Status == models.OrderStatusRefunded {
		return s.Refund(ctx, actor, orderID, req.Note)
	}
	return s.transition(ctx, actor, orderID, req, "")
}

func (s *DefaultOrderService) Cancel(ctx context.Context, actor models.Principal, orderID, note string) (*models.Order, error) {
	if note == "" {
		note = "Order cancelled"
	}
	return s.Transition(ctx, actor, orderID, TransitionRequest{Status: models.OrderStatusCancelled, Note: note})
}

func (s *DefaultOrderService) MarkDelivered(ctx context.Context, actor models.Principal, orderID, note string) (*models.Order, error) {
	if note == "" {
		note = "Order delivered"
	}
	return s.Transition(ctx, actor, orderID, TransitionRequest{Status: models.OrderStatusDelivered, Note: note})
}

// Refund returns the payment through the gateway first, when the order was
// paid online, and only then records the refund and restocks.
func (s *DefaultOrderService) Refund(ctx context.Context, actor models.Principal, orderID, note string) (*models.Order, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(actor, o, models.OrderStatusRefunded); err != nil {
		return nil, err
	}

	refundID := ""
	if o.PaidByGateway() && s.Payments != nil {
		refundID, err = s.Payments.Refund(ctx, o)
		if err != nil {
			s.Logger.Error("gateway refund failed", zap.String("orderId", orderID), zap.Error(err))
			return nil, utils.NewInternal("payment refund failed", err)
		}
	}
	if note == "" {
		note = "Order refunded"
	}
	return s.transition(ctx, actor, orderID, TransitionRequest{Status: models.OrderStatusRefunded, Note: note}, refundID)
}

func (s *DefaultOrderService) transition(ctx context.Context, actor models.Principal, orderID string, req TransitionRequest, refundID string) (*models.Order, error) {
	to := req.Status
	if !to.Valid() {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("unknown order status %q", to))
	}

	var (
		updated *models.Order
		from    models.OrderStatus
		err     error
	)
	for attempt := 1; attempt <= maxVersionRetries; attempt++ {
		err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
			o, err := s.Orders.GetByID(ctx, orderID)
			if err != nil {
				return err
			}
			if err := checkTransition(actor, o, to); err != nil {
				return err
			}
			from = o.Status

			updated, err = s.Orders.UpdateStatus(ctx, orderID, o.Version, s.statusChange(actor, o, req, refundID))
			if err != nil {
				return err
			}
			if to == models.OrderStatusCancelled || to == models.OrderStatusRefunded {
				for i, it := range o.Items {
					if _, err := s.Ledger.Release(ctx, o.ID, i, it.ProductID, it.Quantity); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if !errors.Is(err, repository.ErrVersionConflict) {
			break
		}
		s.Logger.Debug("order version conflict, retrying", zap.String("orderId", orderID), zap.Int("attempt", attempt))
	}
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return nil, utils.NewConflict(utils.CodeConcurrentUpdate, "order was modified concurrently, try again")
	case errors.Is(err, repository.ErrNotFound):
		return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
	case err != nil:
		return nil, asAppError(err, "failed to update order")
	}

	s.Logger.Info("order status changed",
		zap.String("orderId", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor", actor.ID))
	s.afterTransition(ctx, updated, from)
	return updated, nil
}

// checkTransition applies role gating, the status table and the explicit
// cancellation precondition.
func checkTransition(actor models.Principal, o *models.Order, to models.OrderStatus) error {
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleCustomer:
		if !actor.Is(o.CustomerID) {
			return utils.NewForbidden("order belongs to another customer")
		}
		if to != models.OrderStatusCancelled {
			return utils.NewForbidden("customers may only cancel their orders")
		}
	case models.RoleVendor:
		if !o.HasVendor(actor.ID) {
			return utils.NewForbidden("order has no items from this vendor")
		}
		if !o.OwnedBy(actor.ID) {
			return utils.NewForbidden("order has items from other vendors, an admin must update it")
		}
		if to == models.OrderStatusRefunded {
			return utils.NewForbidden("only an admin can refund an order")
		}
	default:
		return utils.NewForbidden("role may not change orders")
	}

	if to == models.OrderStatusCancelled && !o.CanBeCancelled() {
		return utils.NewConflict(utils.CodeInvalidTransition,
			fmt.Sprintf("order %s can no longer be cancelled once %s", o.OrderNumber, o.Status))
	}
	if !o.Status.CanTransitionTo(to) {
		return utils.NewConflict(utils.CodeInvalidTransition,
			fmt.Sprintf("invalid transition: %s -> %s", o.Status, to))
	}
	return nil
}

func (s *DefaultOrderService) statusChange(actor models.Principal, o *models.Order, req TransitionRequest, refundID string) orderRepo.StatusChange {
	note := req.Note
	if note == "" {
		note = fmt.Sprintf("Status changed from %s to %s", o.Status, req.Status)
	}
	change := orderRepo.StatusChange{Status: req.Status}
	switch req.Status {
	case models.OrderStatusProcessing:
		change.FulfillmentStatus = models.FulfillmentProcessing
	case models.OrderStatusShipped:
		change.FulfillmentStatus = models.FulfillmentShipped
		if req.TrackingNumber != "" {
			change.TrackingNumber = req.TrackingNumber
			note = fmt.Sprintf("%s (tracking %s)", note, req.TrackingNumber)
		}
	case models.OrderStatusDelivered:
		change.FulfillmentStatus = models.FulfillmentDelivered
		change.PaymentStatus = models.PaymentStatusPaid
	case models.OrderStatusRefunded:
		change.PaymentStatus = models.PaymentStatusRefunded
		if refundID != "" {
			note = fmt.Sprintf("%s (refund %s)", note, refundID)
		}
	}
	change.Entry = models.TimelineEntry{
		ID:        uuid.New().String(),
		Status:    req.Status,
		Date:      s.now(),
		Note:      note,
		UpdatedBy: actor.ID,
	}
	return change
}

func (s *DefaultOrderService) load(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
	}
	if err != nil {
		return nil, utils.NewInternal("failed to load order", err)
	}
	return o, nil
}

// asAppError keeps typed errors and wraps everything else as internal.
func asAppError(err error, msg string) error {
	if _, ok := utils.AsAppError(err); ok {
		return err
	}
	return utils.NewInternal(msg, err)
}
