package stats

import (
	"context"
	"testing"
	"time"

	memoryRepo "plantco/database/repository/memory"
	"plantco/models"
	"plantco/services/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAggregator(t *testing.T) (*memoryRepo.Store, *Aggregator) {
	t.Helper()
	s := memoryRepo.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "v1", Role: models.RoleVendor, VendorProfile: &models.VendorProfile{}}))
	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "sp1", Role: models.RoleServiceProvider, ServiceProviderProfile: &models.ServiceProviderProfile{}}))
	return s, &Aggregator{
		Orders:   s.Orders(),
		Bookings: s.Bookings(),
		Products: s.Products(),
		Reviews:  s.Reviews(),
		Users:    s.Users(),
		Effects:  s.Effects(),
		Tx:       s,
		Logger:   zap.NewNop(),
	}
}

func seedOrder(t *testing.T, s *memoryRepo.Store) {
	t.Helper()
	require.NoError(t, s.Orders().Create(context.Background(), &models.Order{
		ID:          "o1",
		OrderNumber: "PO-2026-000001",
		Items: []models.OrderItem{
			{ProductID: "p1", VendorID: "v1", Quantity: 2, Price: 10, TotalPrice: 20},
			{ProductID: "p2", VendorID: "v1", Quantity: 1, Price: 5, TotalPrice: 5},
		},
	}))
}

func vendorStats(t *testing.T, s *memoryRepo.Store) models.VendorStats {
	t.Helper()
	u, err := s.Users().GetByID(context.Background(), "v1")
	require.NoError(t, err)
	return u.VendorProfile.Stats
}

func TestOrderDeliveredIsIdempotent(t *testing.T) {
	s, a := newAggregator(t)
	seedOrder(t, s)
	ctx := context.Background()

	require.NoError(t, a.OnOrderDelivered(ctx, "o1"))
	require.NoError(t, a.OnOrderDelivered(ctx, "o1"))
	st := vendorStats(t, s)
	assert.Equal(t, 3, st.TotalSales)
	assert.Equal(t, 25.0, st.TotalRevenue)

	require.NoError(t, a.OnOrderRefunded(ctx, "o1"))
	require.NoError(t, a.OnOrderRefunded(ctx, "o1"))
	st = vendorStats(t, s)
	assert.Equal(t, 0, st.TotalSales)
	assert.Equal(t, 0.0, st.TotalRevenue)
}

func TestRefundBeforeDeliveryCredit(t *testing.T) {
	s, a := newAggregator(t)
	seedOrder(t, s)
	ctx := context.Background()

	require.NoError(t, a.OnOrderRefunded(ctx, "o1"))
	require.NoError(t, a.OnOrderDelivered(ctx, "o1"))
	assert.Equal(t, 0, vendorStats(t, s).TotalSales)
}

func TestBookingCompletedAndProviderRating(t *testing.T) {
	s, a := newAggregator(t)
	ctx := context.Background()
	start := time.Now().Add(48 * time.Hour).UTC()
	for i, st := range []models.BookingStatus{models.BookingCompleted, models.BookingCompleted, models.BookingCancelled, models.BookingPending} {
		b := &models.Booking{
			ID:             []string{"b1", "b2", "b3", "b4"}[i],
			BookingNumber:  []string{"BK-1", "BK-2", "BK-3", "BK-4"}[i],
			ProviderID:     "sp1",
			CustomerID:     "c1",
			Status:         st,
			ScheduledStart: start.Add(time.Duration(i) * 2 * time.Hour),
			ScheduledEnd:   start.Add(time.Duration(i)*2*time.Hour + time.Hour),
		}
		if st == models.BookingCompleted {
			b.CustomerReview = &models.CustomerReview{Rating: 4 + i, ReviewedAt: time.Now()}
		}
		require.NoError(t, s.Bookings().Create(ctx, b))
	}

	require.NoError(t, a.Handle(ctx, tasks.TypeBookingCompleted, tasks.StatsPayload{ProviderID: "sp1"}))
	require.NoError(t, a.Handle(ctx, tasks.TypeReviewAdded, tasks.StatsPayload{ProviderID: "sp1"}))

	u, err := s.Users().GetByID(ctx, "sp1")
	require.NoError(t, err)
	st := u.ServiceProviderProfile.Stats
	assert.Equal(t, 4, st.TotalJobs)
	assert.Equal(t, 2, st.CompletedJobs)
	assert.Equal(t, 50.0, st.CompletionRate)
	assert.Equal(t, 4.5, st.AverageRating)
	assert.Equal(t, 2, st.TotalReviews)
}

func TestProductReviewRecompute(t *testing.T) {
	s, a := newAggregator(t)
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &models.Product{ID: "p1", VendorID: "v1", Inventory: models.NewInventory(1)}))
	for i, st := range []models.ReviewStatus{models.ReviewApproved, models.ReviewApproved, models.ReviewPending} {
		require.NoError(t, s.Reviews().Create(ctx, &models.Review{
			ID: []string{"r1", "r2", "r3"}[i], ProductID: "p1", VendorID: "v1",
			CustomerID: []string{"c1", "c2", "c3"}[i], Rating: []int{5, 2, 1}[i], Status: st,
		}))
	}

	require.NoError(t, a.OnReviewAdded(ctx, ReviewTarget{VendorID: "v1", ProductID: "p1"}))

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, p.ReviewStats.AverageRating)
	assert.Equal(t, 2, p.ReviewStats.TotalReviews)
	assert.Equal(t, 1, p.ReviewStats.Distribution["5"])
	assert.Equal(t, 3.5, vendorStats(t, s).AverageRating)
}

func TestHandleUnknownType(t *testing.T) {
	_, a := newAggregator(t)
	assert.Error(t, a.Handle(context.Background(), "stats:nope", tasks.StatsPayload{}))
}

func TestInlineDispatcher(t *testing.T) {
	s, a := newAggregator(t)
	seedOrder(t, s)
	d := &InlineDispatcher{Aggregator: a, Logger: zap.NewNop()}

	require.NoError(t, d.Dispatch(context.Background(), tasks.TypeOrderDelivered, tasks.StatsPayload{OrderID: "o1"}))
	d.Wait()
	assert.Equal(t, 3, vendorStats(t, s).TotalSales)
}
