package userRepo

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

const CollectionName = "users"

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(CollectionName)}
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", u.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its unique ID (full document).
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &u, nil
}

func (r *MongoUserRepo) TouchSchedule(ctx context.Context, providerID string) error {
	return r.updateWithOperator(ctx, providerID, bson.M{
		"$inc": bson.M{"scheduleVersion": 1},
	})
}

func (r *MongoUserRepo) IncVendorSales(ctx context.Context, vendorID string, units int, revenue float64) error {
	return r.updateWithOperator(ctx, vendorID, bson.M{
		"$inc": bson.M{
			"vendorProfile.stats.totalSales":   units,
			"vendorProfile.stats.totalRevenue": revenue,
		},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoUserRepo) SetVendorRating(ctx context.Context, vendorID string, average float64, count int) error {
	return r.updateWithOperator(ctx, vendorID, bson.M{
		"$set": bson.M{
			"vendorProfile.stats.averageRating": average,
			"vendorProfile.stats.totalReviews":  count,
			"updatedAt":                         time.Now().UTC(),
		},
	})
}

func (r *MongoUserRepo) SetProviderJobStats(ctx context.Context, providerID string, total, completed int, completionRate float64) error {
	return r.updateWithOperator(ctx, providerID, bson.M{
		"$set": bson.M{
			"serviceProviderProfile.stats.totalJobs":      total,
			"serviceProviderProfile.stats.completedJobs":  completed,
			"serviceProviderProfile.stats.completionRate": completionRate,
			"updatedAt":                                   time.Now().UTC(),
		},
	})
}

func (r *MongoUserRepo) SetProviderRating(ctx context.Context, providerID string, average float64, count int) error {
	return r.updateWithOperator(ctx, providerID, bson.M{
		"$set": bson.M{
			"serviceProviderProfile.stats.averageRating": average,
			"serviceProviderProfile.stats.totalReviews":  count,
			"updatedAt":                                  time.Now().UTC(),
		},
	})
}

// updateWithOperator applies a raw update document to one user by ID.
func (r *MongoUserRepo) updateWithOperator(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}
