package productRepo

import (
	"context"

	"plantco/models"
)

// ProductRepository defines methods for product data access.
type ProductRepository interface {
	// Create inserts a new product record.
	Create(ctx context.Context, p *models.Product) error
	// GetByID retrieves a product by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetByIDs retrieves every product whose ID is in ids. Missing IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	// ReserveStock atomically takes qty units. Untracked products are left
	// unchanged, backorderable products may go negative, and anything else
	// fails with repository.ErrInsufficientStock when fewer than qty remain.
	ReserveStock(ctx context.Context, id string, qty int) (*models.Inventory, error)
	// ReleaseStock returns qty units to a tracked product unconditionally.
	ReleaseStock(ctx context.Context, id string, qty int) (*models.Inventory, error)
	// SetReviewStats stores recomputed review statistics.
	SetReviewStats(ctx context.Context, id string, stats models.ReviewStats) error
}
