package booking

import (
	"context"
	"fmt"
	"time"

	"plantco/models"
	"plantco/services/events"
	"plantco/services/tasks"
	"plantco/utils"

	"go.uber.org/zap"
)

func (s *DefaultBookingService) afterTransition(ctx context.Context, actor models.Principal, b *models.Booking, from models.BookingStatus) {
	s.invalidate(ctx, b.ID)
	s.publish(ctx, events.New(events.BookingStatusChanged, b.ID, map[string]interface{}{
		"bookingId":     b.ID,
		"bookingNumber": b.BookingNumber,
		"from":          from,
		"to":            b.Status,
	}))

	// Tell whichever party did not make the change.
	recipient := b.CustomerID
	if actor.Is(b.CustomerID) {
		recipient = b.ProviderID
	}
	s.notify(recipient, "Booking update",
		fmt.Sprintf("Booking %s is now %s.", b.BookingNumber, b.Status),
		map[string]string{"type": "booking_status", "bookingId": b.ID, "status": string(b.Status)})

	if b.Status == models.BookingCompleted {
		s.dispatch(ctx, tasks.TypeBookingCompleted, tasks.StatsPayload{BookingID: b.ID, ProviderID: b.ProviderID})
	}
}

func (s *DefaultBookingService) dispatch(ctx context.Context, taskType string, p tasks.StatsPayload) {
	if s.Stats == nil {
		return
	}
	if err := s.Stats.Dispatch(ctx, taskType, p); err != nil {
		s.Logger.Error("failed to dispatch stats job",
			zap.String("type", taskType), zap.String("bookingId", p.BookingID), zap.Error(err))
	}
}

func (s *DefaultBookingService) publish(ctx context.Context, e events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, e); err != nil {
		s.Logger.Warn("failed to publish event", zap.String("type", e.Type), zap.String("key", e.Key), zap.Error(err))
	}
}

func (s *DefaultBookingService) notify(userID, title, body string, data map[string]string) {
	if s.Notifier == nil || userID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Notifier.NotifyUser(ctx, userID, title, body, data); err != nil {
			s.Logger.Warn("failed to send notification", zap.String("userId", userID), zap.Error(err))
		}
	}()
}

func (s *DefaultBookingService) invalidate(ctx context.Context, bookingID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, utils.BookingCachePrefix+bookingID); err != nil {
		s.Logger.Warn("failed to invalidate booking cache", zap.String("bookingId", bookingID), zap.Error(err))
	}
}
