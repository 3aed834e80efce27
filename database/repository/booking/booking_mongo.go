package bookingRepo

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

const CollectionName = "bookings"

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection(CollectionName)}
}

func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("booking %s: %w", b.BookingNumber, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &b, nil
}

// FindOverlapping uses half-open intervals: a booking ending exactly at start
// does not overlap.
func (r *MongoBookingRepo) FindOverlapping(ctx context.Context, providerID string, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"providerId":     providerID,
		"status":         bson.M{"$in": statuses},
		"scheduledStart": bson.M{"$lt": end},
		"scheduledEnd":   bson.M{"$gt": start},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, b *models.Booking, expectedVersion int64) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	b.Version = expectedVersion + 1
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": b.ID, "version": expectedVersion}, b)
	if err != nil {
		b.Version = expectedVersion
		return fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		b.Version = expectedVersion
		n, err := r.coll.CountDocuments(ctx, bson.M{"id": b.ID})
		if err != nil {
			return fmt.Errorf("failed to look up booking %s: %w", b.ID, err)
		}
		if n == 0 {
			return fmt.Errorf("booking %s: %w", b.ID, repository.ErrNotFound)
		}
		return fmt.Errorf("booking %s at version %d: %w", b.ID, expectedVersion, repository.ErrVersionConflict)
	}
	return nil
}

func (r *MongoBookingRepo) SetReview(ctx context.Context, id string, review models.CustomerReview) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"id":             id,
		"status":         models.BookingCompleted,
		"customerReview": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{"customerReview": review, "updatedAt": review.ReviewedAt},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s not reviewable: %w", id, repository.ErrPreconditionFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store review on booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoBookingRepo) List(ctx context.Context, f ListFilter) ([]models.Booking, int64, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if f.CustomerID != "" {
		filter["customerId"] = f.CustomerID
	}
	if f.ProviderID != "" {
		filter["providerId"] = f.ProviderID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	window := bson.M{}
	if !f.From.IsZero() {
		window["$gte"] = f.From
	}
	if !f.To.IsZero() {
		window["$lt"] = f.To
	}
	if len(window) > 0 {
		filter["scheduledStart"] = window
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	order := -1
	if f.Ascending {
		order = 1
	}
	skip, size := repository.Page(f.Page, f.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduledStart", Value: order}}).
		SetSkip(skip).
		SetLimit(size)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *MongoBookingRepo) ProviderJobStats(ctx context.Context, providerID string) (*JobStats, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"providerId": providerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$priceBreakdown.totalAmount"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate provider stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status  models.BookingStatus `bson:"_id"`
		Count   int                  `bson:"count"`
		Revenue float64              `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode provider stats: %w", err)
	}

	stats := &JobStats{ByStatus: map[models.BookingStatus]int{}}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		if row.Status == models.BookingCompleted {
			stats.Completed = row.Count
			stats.Revenue = row.Revenue
		}
	}
	return stats, nil
}

func (r *MongoBookingRepo) ProviderRating(ctx context.Context, providerID string) (models.RatingSummary, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"providerId":            providerID,
			"customerReview.rating": bson.M{"$gte": 1, "$lte": 5},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$customerReview.rating",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to aggregate provider rating: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Rating int `bson:"_id"`
		Count  int `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to decode provider rating: %w", err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return models.SummarizeRatings(counts), nil
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}, {Key: "scheduledStart", Value: 1}}},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "scheduledStart", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
