package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plantco/database/repository"
	"plantco/models"
	"plantco/utils"

	"go.uber.org/zap"
)

const maxVersionRetries = 3

// Transition moves a booking along the status table. Cancel, reject and
// decline carry their own rules and are routed to those operations.
func (s *DefaultBookingService) Transition(ctx context.Context, actor models.Principal, bookingID string, req TransitionRequest) (*models.Booking, error) {
	to, ok := models.ParseBookingStatus(req.Status)
	if !ok {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("unknown booking status %q", req.Status))
	}
	switch to {
	case models.BookingCancelled:
		return s.Cancel(ctx, actor, bookingID, req.Reason)
	case models.BookingRejected:
		return s.Reject(ctx, actor, bookingID, req.Reason)
	case models.BookingDeclined:
		return s.Decline(ctx, actor, bookingID, req.Reason)
	case models.BookingPending:
		return nil, utils.NewConflict(utils.CodeInvalidTransition, "a booking cannot return to pending")
	}

	return s.mutate(ctx, actor, bookingID, to, func(b *models.Booking, now time.Time) error {
		if !actor.IsAdmin() && !actor.Is(b.ProviderID) {
			return utils.NewForbidden(fmt.Sprintf("only the provider can move a booking to %s", to))
		}
		return checkEdge(b, to)
	})
}

// Cancel is open to the customer, the provider on the booking and admins
// until 24 hours before the start.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error) {
	return s.mutate(ctx, actor, bookingID, models.BookingCancelled, func(b *models.Booking, now time.Time) error {
		var by models.CancelledBy
		switch {
		case actor.Is(b.CustomerID):
			by = models.CancelledByCustomer
		case actor.Is(b.ProviderID):
			by = models.CancelledByProvider
		case actor.IsAdmin():
			by = models.CancelledByAdmin
		default:
			return utils.NewForbidden("you are not authorized to cancel this booking")
		}
		if err := checkEdge(b, models.BookingCancelled); err != nil {
			return err
		}
		if !b.OpenForChange(now, s.cancelWindow()) {
			return utils.NewConflict(utils.CodeOutsideWindow,
				fmt.Sprintf("this booking cannot be cancelled, it must be at least %s before the scheduled time", windowText(s.cancelWindow())))
		}
		b.Cancellation = &models.Cancellation{CancelledAt: now, CancelledBy: by, Reason: reason}
		return nil
	})
}

// Reject is the provider withdrawing from a booking at least 12 hours ahead.
func (s *DefaultBookingService) Reject(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error) {
	return s.mutate(ctx, actor, bookingID, models.BookingRejected, func(b *models.Booking, now time.Time) error {
		if !actor.Is(b.ProviderID) {
			return utils.NewForbidden("you are not authorized to reject this booking")
		}
		if err := checkEdge(b, models.BookingRejected); err != nil {
			return err
		}
		if !b.OpenForChange(now, s.rejectWindow()) {
			return utils.NewConflict(utils.CodeOutsideWindow,
				fmt.Sprintf("this booking cannot be rejected, it must be at least %s before the scheduled time", windowText(s.rejectWindow())))
		}
		b.Cancellation = &models.Cancellation{CancelledAt: now, CancelledBy: models.CancelledByProvider, Reason: reason}
		return nil
	})
}

// Decline is the provider turning down a pending request.
func (s *DefaultBookingService) Decline(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error) {
	return s.mutate(ctx, actor, bookingID, models.BookingDeclined, func(b *models.Booking, now time.Time) error {
		if !actor.Is(b.ProviderID) {
			return utils.NewForbidden("only the provider can decline a booking")
		}
		if err := checkEdge(b, models.BookingDeclined); err != nil {
			return err
		}
		if reason != "" {
			b.Cancellation = &models.Cancellation{CancelledAt: now, CancelledBy: models.CancelledByProvider, Reason: reason}
		}
		return nil
	})
}

func checkEdge(b *models.Booking, to models.BookingStatus) error {
	if !b.Status.CanTransitionTo(to) {
		return utils.NewConflict(utils.CodeInvalidTransition, fmt.Sprintf("invalid transition: %s -> %s", b.Status, to))
	}
	if to == models.BookingCancelled || to == models.BookingRejected {
		if b.Cancellation != nil {
			return utils.NewConflict(utils.CodeInvalidTransition, "booking already has a cancellation")
		}
	}
	return nil
}

// mutate loads the booking, lets check authorize and prepare the change, and
// writes it conditioned on the loaded version. Stale writes are retried.
func (s *DefaultBookingService) mutate(ctx context.Context, actor models.Principal, bookingID string, to models.BookingStatus, check func(b *models.Booking, now time.Time) error) (*models.Booking, error) {
	var (
		updated *models.Booking
		from    models.BookingStatus
		err     error
	)
	for attempt := 1; attempt <= maxVersionRetries; attempt++ {
		err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
			now := s.now()
			b, err := s.Bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if err := check(b, now); err != nil {
				return err
			}
			from = b.Status
			b.Status = to
			b.UpdatedAt = now
			b.StatusHistory = append(b.StatusHistory, models.BookingTransition{From: from, To: to, At: now, ChangedBy: actor.ID})
			if err := s.Bookings.Update(ctx, b, b.Version); err != nil {
				return err
			}
			updated = b
			return nil
		})
		if !errors.Is(err, repository.ErrVersionConflict) {
			break
		}
		s.Logger.Debug("booking version conflict, retrying", zap.String("bookingId", bookingID), zap.Int("attempt", attempt))
	}
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return nil, utils.NewConflict(utils.CodeConcurrentUpdate, "booking was modified concurrently, try again")
	case errors.Is(err, repository.ErrNotFound):
		return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("booking %s not found", bookingID))
	case err != nil:
		if _, ok := utils.AsAppError(err); ok {
			return nil, err
		}
		return nil, utils.NewInternal("failed to update booking", err)
	}

	s.Logger.Info("booking status changed",
		zap.String("bookingId", bookingID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor", actor.ID))
	s.afterTransition(ctx, actor, updated, from)
	return updated, nil
}

func windowText(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}
