package handlers

import (
	"plantco/utils"

	"go.uber.org/zap"
)

// HandlerBundle groups all endpoint handlers and what the routes need to
// guard them.
type HandlerBundle struct {
	Signer            *utils.TokenSigner
	Health            *utils.HealthMonitor
	Logger            *zap.Logger
	MaxRequestsPerMin int

	Orders   *OrderHandler
	Bookings *BookingHandler
	Reviews  *ReviewHandler
}
