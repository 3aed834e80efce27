package order

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

// afterTransition runs once the status change has committed. Nothing here can
// undo the transition; failures are logged.
func (s *DefaultOrderService) afterTransition(ctx context.Context, o *models.Order, from models.OrderStatus) {
	s.invalidate(ctx, o.ID)
	s.publish(ctx, events.New(events.OrderStatusChanged, o.ID, map[string]interface{}{
		"orderId":     o.ID,
		"orderNumber": o.OrderNumber,
		"from":        from,
		"to":          o.Status,
	}))
	s.notify(o.CustomerID, "Order update",
		fmt.Sprintf("Your order %s is now %s.", o.OrderNumber, o.Status),
		map[string]string{"type": "order_status", "orderId": o.ID, "status": string(o.Status)})

	switch o.Status {
	case models.OrderStatusDelivered:
		s.dispatch(ctx, tasks.TypeOrderDelivered, o.ID)
		if care := CareInstructions(o); len(care) > 0 {
			s.notify(o.CustomerID, "Your plant care instructions", FormatCareInstructions(care),
				map[string]string{"type": "care_instructions", "orderId": o.ID})
		}
	case models.OrderStatusRefunded:
		s.dispatch(ctx, tasks.TypeOrderRefunded, o.ID)
	}
}

func (s *DefaultOrderService) dispatch(ctx context.Context, taskType, orderID string) {
	if s.Stats == nil {
		return
	}
	if err := s.Stats.Dispatch(ctx, taskType, tasks.StatsPayload{OrderID: orderID}); err != nil {
		s.Logger.Error("failed to dispatch stats job",
			zap.String("type", taskType), zap.String("orderId", orderID), zap.Error(err))
	}
}

func (s *DefaultOrderService) publish(ctx context.Context, e events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, e); err != nil {
		s.Logger.Warn("failed to publish event", zap.String("type", e.Type), zap.String("key", e.Key), zap.Error(err))
	}
}

// notify is fire-and-forget and must not use the request context.
func (s *DefaultOrderService) notify(userID, title, body string, data map[string]string) {
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

func (s *DefaultOrderService) invalidate(ctx context.Context, orderID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, utils.OrderCachePrefix+orderID); err != nil {
		s.Logger.Warn("failed to invalidate order cache", zap.String("orderId", orderID), zap.Error(err))
	}
}
