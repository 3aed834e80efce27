package reviewRepo

import (
	"context"

	"plantco/models"
)

// ReviewRepository defines methods for product review data access.
type ReviewRepository interface {
	// Create inserts a review; a second review of the same product by the
	// same customer fails with repository.ErrDuplicate.
	Create(ctx context.Context, r *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	SetStatus(ctx context.Context, id string, status models.ReviewStatus, note string) (*models.Review, error)
	// ProductRating aggregates approved reviews of one product.
	ProductRating(ctx context.Context, productID string) (models.RatingSummary, error)
	// VendorRating aggregates approved reviews across a vendor's products.
	VendorRating(ctx context.Context, vendorID string) (models.RatingSummary, error)
}
