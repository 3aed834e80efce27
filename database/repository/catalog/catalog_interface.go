package catalogRepo

import (
	"context"

	"plantco/models"
)

// CatalogRepository serves provider services and promo codes.
type CatalogRepository interface {
	CreateService(ctx context.Context, s *models.Service) error
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	GetServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error)
	CreatePromo(ctx context.Context, p *models.PromoCode) error
	// GetPromo looks a promo up by its normalised code.
	GetPromo(ctx context.Context, code string) (*models.PromoCode, error)
}
