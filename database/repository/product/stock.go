package productRepo

import (
	"context"
	"errors"
	"fmt"

	"plantco/database/repository"
	"plantco/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type inventoryDoc struct {
	Inventory models.Inventory `bson:"inventory"`
}

// ReserveStock is a single conditional update: the filter only matches when
// the product is untracked, backorderable or holds at least qty units, and the
// pipeline only decrements tracked products.
func (r *MongoProductRepo) ReserveStock(ctx context.Context, id string, qty int) (*models.Inventory, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("reserve %d units of %s: quantity must be positive", qty, id)
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"id": id,
		"$or": bson.A{
			bson.M{"inventory.trackQuantity": false},
			bson.M{"inventory.allowBackorder": true},
			bson.M{"inventory.quantity": bson.M{"$gte": qty}},
		},
	}

	inv, err := r.adjust(ctx, filter, -qty)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to reserve stock for product %s: %w", id, err)
	}

	// Nothing matched: tell a missing product apart from a short one.
	exists, err := r.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return nil, fmt.Errorf("product %s: %w", id, repository.ErrInsufficientStock)
}

func (r *MongoProductRepo) ReleaseStock(ctx context.Context, id string, qty int) (*models.Inventory, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("release %d units of %s: quantity must be positive", qty, id)
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	inv, err := r.adjust(ctx, bson.M{"id": id}, qty)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to release stock for product %s: %w", id, err)
	}
	return inv, nil
}

// adjust adds delta to the quantity of a tracked product matched by filter
// and returns the inventory after the update.
func (r *MongoProductRepo) adjust(ctx context.Context, filter bson.M, delta int) (*models.Inventory, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "inventory.quantity", Value: bson.D{{Key: "$cond", Value: bson.A{
				"$inventory.trackQuantity",
				bson.D{{Key: "$add", Value: bson.A{"$inventory.quantity", delta}}},
				"$inventory.quantity",
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"inventory": 1})

	var doc inventoryDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc.Inventory, nil
}

func (r *MongoProductRepo) exists(ctx context.Context, id string) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"id": 1})
	err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up product %s: %w", id, err)
	}
	return true, nil
}
