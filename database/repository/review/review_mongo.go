package reviewRepo

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

const CollectionName = "reviews"

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) *MongoReviewRepo {
	return &MongoReviewRepo{coll: db.Collection(CollectionName)}
}

func (r *MongoReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, rv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("review of %s by %s: %w", rv.ProductID, rv.CustomerID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var rv models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("review %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch review %s: %w", id, err)
	}
	return &rv, nil
}

func (r *MongoReviewRepo) SetStatus(ctx context.Context, id string, status models.ReviewStatus, note string) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":         status,
		"moderationNote": note,
		"updatedAt":      time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rv models.Review
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&rv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("review %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to moderate review %s: %w", id, err)
	}
	return &rv, nil
}

func (r *MongoReviewRepo) ProductRating(ctx context.Context, productID string) (models.RatingSummary, error) {
	return r.rating(ctx, bson.M{"productId": productID, "status": models.ReviewApproved})
}

func (r *MongoReviewRepo) VendorRating(ctx context.Context, vendorID string) (models.RatingSummary, error) {
	return r.rating(ctx, bson.M{"vendorId": vendorID, "status": models.ReviewApproved})
}

func (r *MongoReviewRepo) rating(ctx context.Context, match bson.M) (models.RatingSummary, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$rating", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Rating int `bson:"_id"`
		Count  int `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to decode ratings: %w", err)
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return models.SummarizeRatings(counts), nil
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoReviewRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "customerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vendorId", Value: 1}, {Key: "status", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}
