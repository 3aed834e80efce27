package effectsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plantco/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "applied_effects"

// EffectRepository is the idempotency ledger for side effects such as stock
// releases and stats increments. Recording a key and performing the effect
// inside the same unit of work makes the effect run at most once.
type EffectRepository interface {
	// Apply records key and reports whether it was new.
	Apply(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type MongoEffectRepo struct {
	coll *mongo.Collection
}

func NewMongoEffectRepo(db *mongo.Database) *MongoEffectRepo {
	return &MongoEffectRepo{coll: db.Collection(CollectionName)}
}

// Apply upserts rather than inserts so an existing key never raises a write
// error, which would abort an enclosing transaction.
func (r *MongoEffectRepo) Apply(ctx context.Context, key string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$setOnInsert": bson.M{"appliedAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to record effect %s: %w", key, err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *MongoEffectRepo) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	err := r.coll.FindOne(ctx, bson.M{"_id": key}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up effect %s: %w", key, err)
	}
	return true, nil
}
