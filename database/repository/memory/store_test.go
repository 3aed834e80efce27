package memoryRepo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"plantco/database/repository"
	"plantco/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *Store, id string, inv models.Inventory) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &models.Product{ID: id, Name: id, Inventory: inv}))
}

func TestReserveStockSemantics(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "tracked", models.NewInventory(2))
	seedProduct(t, s, "untracked", models.Inventory{Quantity: 0})
	seedProduct(t, s, "backorder", models.Inventory{Quantity: 1, TrackQuantity: true, AllowBackorder: true})

	inv, err := s.Products().ReserveStock(ctx, "tracked", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Quantity)

	_, err = s.Products().ReserveStock(ctx, "tracked", 1)
	assert.True(t, errors.Is(err, repository.ErrInsufficientStock))

	inv, err = s.Products().ReserveStock(ctx, "untracked", 50)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Quantity)

	inv, err = s.Products().ReserveStock(ctx, "backorder", 3)
	require.NoError(t, err)
	assert.Equal(t, -2, inv.Quantity)

	_, err = s.Products().ReserveStock(ctx, "ghost", 1)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1", models.NewInventory(5))

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Products().ReserveStock(ctx, "p1", 3); err != nil {
			return err
		}
		if _, err := s.Effects().Apply(ctx, "k"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Inventory.Quantity)
	applied, _ := s.Effects().Exists(ctx, "k")
	assert.False(t, applied)
}

func TestConcurrentReservesOfLastUnit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "last", models.NewInventory(1))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Products().ReserveStock(ctx, "last", 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, short int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrInsufficientStock):
			short++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
}

func TestOrderVersionCheck(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Orders().Create(ctx, &models.Order{ID: "o1", OrderNumber: "PO-1", Status: models.OrderStatusPending}))

	o, err := s.Orders().UpdateStatus(ctx, "o1", 0, orderChange(models.OrderStatusConfirmed))
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.Version)
	assert.Len(t, o.Timeline, 1)

	_, err = s.Orders().UpdateStatus(ctx, "o1", 0, orderChange(models.OrderStatusProcessing))
	assert.True(t, errors.Is(err, repository.ErrVersionConflict))
}
