package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plantco/database/repository"
	"plantco/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ServicesCollection = "services"
	PromoCollection    = "promo_codes"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	services *mongo.Collection
	promos   *mongo.Collection
}

func NewMongoCatalogRepo(db *mongo.Database) *MongoCatalogRepo {
	return &MongoCatalogRepo{
		services: db.Collection(ServicesCollection),
		promos:   db.Collection(PromoCollection),
	}
}

func (r *MongoCatalogRepo) CreateService(ctx context.Context, s *models.Service) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if _, err := r.services.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var s models.Service
	if err := r.services.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service with id %s: %w", id, err)
	}
	return &s, nil
}

func (r *MongoCatalogRepo) GetServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	cursor, err := r.services.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *MongoCatalogRepo) CreatePromo(ctx context.Context, p *models.PromoCode) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	p.Code = models.NormalizePromoCode(p.Code)
	if _, err := r.promos.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("promo %s: %w", p.Code, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create promo: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) GetPromo(ctx context.Context, code string) (*models.PromoCode, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	code = models.NormalizePromoCode(code)
	var p models.PromoCode
	if err := r.promos.FindOne(ctx, bson.M{"code": code}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("promo %s: %w", code, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch promo %s: %w", code, err)
	}
	return &p, nil
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoCatalogRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.services.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	if _, err := r.promos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create promo indexes: %w", err)
	}
	return nil
}
