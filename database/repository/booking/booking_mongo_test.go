package bookingRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"plantco/database/repository"
	"plantco/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "plantco." + CollectionName

func TestProviderRating(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("averages grouped ratings", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 5}, {Key: "count", Value: 3}},
			bson.D{{Key: "_id", Value: 2}, {Key: "count", Value: 1}},
		))
		repo := NewMongoBookingRepo(mt.DB)

		sum, err := repo.ProviderRating(context.Background(), "prov-1")
		require.NoError(mt, err)
		assert.Equal(mt, 4, sum.Count)
		assert.Equal(mt, 4.25, sum.Average)
		assert.Equal(mt, 3, sum.Distribution["5"])
	})
}

func TestProviderJobStats(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("folds status groups", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "completed"}, {Key: "count", Value: 2}, {Key: "revenue", Value: 300.0}},
			bson.D{{Key: "_id", Value: "cancelled"}, {Key: "count", Value: 1}, {Key: "revenue", Value: 80.0}},
		))
		repo := NewMongoBookingRepo(mt.DB)

		stats, err := repo.ProviderJobStats(context.Background(), "prov-1")
		require.NoError(mt, err)
		assert.Equal(mt, 3, stats.Total)
		assert.Equal(mt, 2, stats.Completed)
		assert.Equal(mt, 300.0, stats.Revenue)
		assert.Equal(mt, 1, stats.ByStatus[models.BookingCancelled])
	})
}

func TestSetReviewOnce(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second review fails the precondition", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := NewMongoBookingRepo(mt.DB)

		_, err := repo.SetReview(context.Background(), "b1", models.CustomerReview{Rating: 5, ReviewedAt: time.Now()})
		assert.True(mt, errors.Is(err, repository.ErrPreconditionFailed), err)
	})
}

func TestUpdateVersionConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stale version restores the in-memory version", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)
		repo := NewMongoBookingRepo(mt.DB)

		b := &models.Booking{ID: "b1", Version: 3}
		err := repo.Update(context.Background(), b, 3)
		assert.True(mt, errors.Is(err, repository.ErrVersionConflict), err)
		assert.Equal(mt, int64(3), b.Version)
	})
}
