package bookingRepo

import (
	"context"
	"time"

	"plantco/models"
)

// ListFilter narrows a booking listing. Zero values are ignored.
type ListFilter struct {
	CustomerID string
	ProviderID string
	Statuses   []models.BookingStatus
	From       time.Time // scheduledStart >= From
	To         time.Time // scheduledStart < To
	Ascending  bool
	Page       int
	Limit      int
}

// JobStats is the per-provider booking breakdown.
type JobStats struct {
	Total     int                          `json:"totalBookings"`
	Completed int                          `json:"completedBookings"`
	ByStatus  map[models.BookingStatus]int `json:"statusBreakdown"`
	Revenue   float64                      `json:"completedRevenue"`
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// FindOverlapping returns the provider's bookings in statuses whose
	// [scheduledStart, scheduledEnd) intersects [start, end).
	FindOverlapping(ctx context.Context, providerID string, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
	// Update replaces the booking if its stored version equals
	// expectedVersion; b.Version is set to expectedVersion+1.
	Update(ctx context.Context, b *models.Booking, expectedVersion int64) error
	// SetReview writes the customer review once, on a completed booking.
	// A second write fails with repository.ErrPreconditionFailed.
	SetReview(ctx context.Context, id string, review models.CustomerReview) (*models.Booking, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]models.Booking, int64, error)
	ProviderJobStats(ctx context.Context, providerID string) (*JobStats, error)
	// ProviderRating aggregates every customer review on the provider's bookings.
	ProviderRating(ctx context.Context, providerID string) (models.RatingSummary, error)
}
