package booking

import (
	"context"
	"time"

	"plantco/database"
	bookingRepo "plantco/database/repository/booking"
	catalogRepo "plantco/database/repository/catalog"
	counterRepo "plantco/database/repository/counter"
	userRepo "plantco/database/repository/user"
	"plantco/models"
	"plantco/services/events"
	"plantco/services/notification"
	"plantco/services/stats"
	"plantco/utils"

	"go.uber.org/zap"
)

// BookingService defines the service booking lifecycle.
type BookingService interface {
	Create(ctx context.Context, actor models.Principal, req CreateBookingRequest) (*models.Booking, error)
	Transition(ctx context.Context, actor models.Principal, bookingID string, req TransitionRequest) (*models.Booking, error)
	Cancel(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error)
	Reject(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error)
	Decline(ctx context.Context, actor models.Principal, bookingID, reason string) (*models.Booking, error)
	AddCustomerReview(ctx context.Context, actor models.Principal, bookingID string, req ReviewRequest) (*models.Booking, error)
	Get(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error)
	ListForUser(ctx context.Context, actor models.Principal, status string, page, limit int) (*BookingPage, error)
	Upcoming(ctx context.Context, actor models.Principal) ([]models.Booking, error)
	History(ctx context.Context, actor models.Principal) ([]models.Booking, error)
	Delete(ctx context.Context, actor models.Principal, bookingID string) error
	ProviderStats(ctx context.Context, actor models.Principal, providerID string) (*bookingRepo.JobStats, error)
}

type CreateBookingRequest struct {
	ProviderID         string   `json:"providerId" binding:"required"`
	ServiceID          string   `json:"serviceId" binding:"required"`
	ScheduledDate      string   `json:"scheduledDate" binding:"required"` // YYYY-MM-DD
	ScheduledTime      string   `json:"scheduledTime" binding:"required"` // HH:MM, UTC
	Duration           float64  `json:"duration" binding:"required"`      // hours
	AdditionalServices []string `json:"additionalServices,omitempty"`
	PromoCode          string   `json:"promoCode,omitempty"`
	Address            string   `json:"address,omitempty"`
	CustomerNotes      string   `json:"customerNotes,omitempty"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

type BookingPage struct {
	Bookings []models.Booking `json:"bookings"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// DefaultBookingService implements BookingService. Stats, Notifier, Events
// and Cache may be nil.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Catalog  catalogRepo.CatalogRepository
	Counter  counterRepo.CounterRepository
	Tx       database.Transactor

	Stats    stats.Dispatcher
	Notifier notification.Notifier
	Events   events.Publisher
	Cache    utils.ReadCache
	Logger   *zap.Logger

	NumberPrefix string
	CancelWindow time.Duration
	RejectWindow time.Duration
	Now          func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultBookingService) prefix() string {
	if s.NumberPrefix == "" {
		return "BK"
	}
	return s.NumberPrefix
}

func (s *DefaultBookingService) cancelWindow() time.Duration {
	if s.CancelWindow <= 0 {
		return models.CancellationWindow
	}
	return s.CancelWindow
}

func (s *DefaultBookingService) rejectWindow() time.Duration {
	if s.RejectWindow <= 0 {
		return models.RejectionWindow
	}
	return s.RejectWindow
}
