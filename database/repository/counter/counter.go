package counterRepo

import (
	"context"
	"fmt"

	"plantco/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "counters"

// CounterRepository hands out monotonically increasing sequence numbers.
type CounterRepository interface {
	// Next returns the next value of the named sequence, starting at 1.
	Next(ctx context.Context, name string) (int64, error)
}

type MongoCounterRepo struct {
	coll *mongo.Collection
}

func NewMongoCounterRepo(db *mongo.Database) *MongoCounterRepo {
	return &MongoCounterRepo{coll: db.Collection(CollectionName)}
}

func (r *MongoCounterRepo) Next(ctx context.Context, name string) (int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}
	return doc.Seq, nil
}
