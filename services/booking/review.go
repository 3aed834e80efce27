package booking

import (
	"context"
	"errors"
	"fmt"

	"plantco/database/repository"
	"plantco/models"
	"plantco/services/events"
	"plantco/services/tasks"
	"plantco/utils"

	"go.uber.org/zap"
)

// AddCustomerReview records the customer's single review of a completed
// booking and schedules a provider rating recompute.
func (s *DefaultBookingService) AddCustomerReview(ctx context.Context, actor models.Principal, bookingID string, req ReviewRequest) (*models.Booking, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, "rating must be between 1 and 5")
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(b.CustomerID) {
		return nil, utils.NewForbidden("you are not authorized to review this booking")
	}
	if err := reviewable(b); err != nil {
		return nil, err
	}

	updated, err := s.Bookings.SetReview(ctx, bookingID, models.CustomerReview{
		Rating:     req.Rating,
		Comment:    req.Comment,
		ReviewedAt: s.now(),
	})
	if errors.Is(err, repository.ErrPreconditionFailed) {
		// Lost a race; report what the stored booking now says.
		current, lerr := s.load(ctx, bookingID)
		if lerr != nil {
			return nil, lerr
		}
		if rerr := reviewable(current); rerr != nil {
			return nil, rerr
		}
		return nil, utils.NewConflict(utils.CodeAlreadyReviewed, "you have already reviewed this booking")
	}
	if err != nil {
		return nil, utils.NewInternal("failed to save review", err)
	}

	s.Logger.Info("booking reviewed",
		zap.String("bookingId", bookingID), zap.String("providerId", updated.ProviderID), zap.Int("rating", req.Rating))
	s.invalidate(ctx, bookingID)
	s.publish(ctx, events.New(events.BookingReviewed, bookingID, map[string]interface{}{
		"bookingId":  bookingID,
		"providerId": updated.ProviderID,
		"rating":     req.Rating,
	}))
	s.dispatch(ctx, tasks.TypeReviewAdded, tasks.StatsPayload{BookingID: bookingID, ProviderID: updated.ProviderID})
	s.notify(updated.ProviderID, "New review",
		fmt.Sprintf("You received a %d star review for %s.", req.Rating, updated.BookingNumber),
		map[string]string{"type": "booking_reviewed", "bookingId": bookingID})
	return updated, nil
}

func reviewable(b *models.Booking) error {
	if b.CustomerReview != nil {
		return utils.NewConflict(utils.CodeAlreadyReviewed, "you have already reviewed this booking")
	}
	if b.Status != models.BookingCompleted {
		return utils.NewValidationError(utils.CodeInvalidInput, "you can only review completed bookings")
	}
	return nil
}
