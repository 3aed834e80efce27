package userRepo

import (
	"context"

	"plantco/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, u *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// TouchSchedule bumps the provider's schedule version. Two units of work
	// booking the same provider both write this document, so at most one of
	// them commits.
	TouchSchedule(ctx context.Context, providerID string) error
	// IncVendorSales adds units and revenue to the vendor's counters.
	// Negative values roll a previous increment back.
	IncVendorSales(ctx context.Context, vendorID string, units int, revenue float64) error
	// SetVendorRating stores a recomputed vendor rating.
	SetVendorRating(ctx context.Context, vendorID string, average float64, count int) error
	// SetProviderJobStats stores recomputed provider job counters.
	SetProviderJobStats(ctx context.Context, providerID string, total, completed int, completionRate float64) error
	// SetProviderRating stores a recomputed provider rating.
	SetProviderRating(ctx context.Context, providerID string, average float64, count int) error
}
