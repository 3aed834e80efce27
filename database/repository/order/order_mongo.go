package orderRepo

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

const CollectionName = "orders"

// MongoOrderRepo implements OrderRepository using MongoDB.
type MongoOrderRepo struct {
	coll *mongo.Collection
}

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{coll: db.Collection(CollectionName)}
}

func (r *MongoOrderRepo) Create(ctx context.Context, o *models.Order) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order %s: %w", o.OrderNumber, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var o models.Order
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order with id %s: %w", id, err)
	}
	return &o, nil
}

func (r *MongoOrderRepo) UpdateStatus(ctx context.Context, id string, expectedVersion int64, change StatusChange) (*models.Order, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	set := bson.M{
		"status":    change.Status,
		"updatedAt": change.Entry.Date,
	}
	if change.PaymentStatus != "" {
		set["paymentStatus"] = change.PaymentStatus
	}
	if change.FulfillmentStatus != "" {
		set["fulfillmentStatus"] = change.FulfillmentStatus
	}
	if change.TrackingNumber != "" {
		set["shipping.trackingNumber"] = change.TrackingNumber
	}

	filter := bson.M{"id": id, "version": expectedVersion}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"timeline": change.Entry},
		"$inc":  bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o models.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to look up order %s: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	return nil, fmt.Errorf("order %s at version %d: %w", id, expectedVersion, repository.ErrVersionConflict)
}

func (r *MongoOrderRepo) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(ctx, bson.M{"customerId": customerID}, page, limit)
}

func (r *MongoOrderRepo) ListByVendor(ctx context.Context, vendorID string, page, limit int) ([]models.Order, int64, error) {
	return r.list(ctx, bson.M{"vendorIds": vendorID}, page, limit)
}

func (r *MongoOrderRepo) list(ctx context.Context, filter bson.M, page, limit int) ([]models.Order, int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	skip, size := repository.Page(page, limit)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(size)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, total, nil
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoOrderRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "vendorIds", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
