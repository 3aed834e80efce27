package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	memoryRepo "plantco/database/repository/memory"
	"plantco/models"
	"plantco/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T, inv models.Inventory) (*memoryRepo.Store, *Ledger) {
	t.Helper()
	store := memoryRepo.NewStore()
	require.NoError(t, store.Products().Create(context.Background(), &models.Product{
		ID: "p1", VendorID: "v1", Name: "Monstera", Price: 25, Inventory: inv,
	}))
	return store, NewLedger(store.Products(), store.Effects(), zap.NewNop())
}

func quantity(t *testing.T, store *memoryRepo.Store) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	return p.Inventory.Quantity
}

func TestReserveAndRelease(t *testing.T) {
	store, l := setup(t, models.NewInventory(10))
	ctx := context.Background()

	m, err := l.Reserve(ctx, "o1", 0, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 7, m.Inventory.Quantity)
	assert.False(t, m.LowStock())

	again, err := l.Reserve(ctx, "o1", 0, "p1", 3)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, 7, quantity(t, store))

	_, err = l.Release(ctx, "o1", 0, "p1", 3)
	require.NoError(t, err)
	_, err = l.Release(ctx, "o1", 0, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 10, quantity(t, store))
}

func TestReserveInsufficient(t *testing.T) {
	store, l := setup(t, models.NewInventory(5))
	ctx := context.Background()

	m, err := l.Reserve(ctx, "o1", 0, "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Inventory.Quantity)
	assert.True(t, m.LowStock())

	_, err = l.Reserve(ctx, "o2", 0, "p1", 1)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
	assert.Equal(t, utils.CodeInsufficientStock, utils.CodeOf(err))
	assert.Equal(t, 0, quantity(t, store))
}

func TestReserveUntrackedAndBackorder(t *testing.T) {
	store, l := setup(t, models.Inventory{Quantity: 1, TrackQuantity: false})
	_, err := l.Reserve(context.Background(), "o1", 0, "p1", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, quantity(t, store))

	store, l = setup(t, models.Inventory{Quantity: 1, TrackQuantity: true, AllowBackorder: true})
	_, err = l.Reserve(context.Background(), "o1", 0, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, -2, quantity(t, store))
}

func TestReserveUnknownProduct(t *testing.T) {
	_, l := setup(t, models.NewInventory(1))
	_, err := l.Reserve(context.Background(), "o1", 0, "missing", 1)
	assert.Equal(t, utils.CodeProductNotFound, utils.CodeOf(err))
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestReserveLastUnitConcurrently(t *testing.T) {
	store, l := setup(t, models.NewInventory(1))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.WithTransaction(context.Background(), func(ctx context.Context) error {
				_, err := l.Reserve(ctx, []string{"a", "b"}[i], 0, "p1", 1)
				return err
			})
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			assert.Equal(t, utils.CodeInsufficientStock, utils.CodeOf(err))
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, quantity(t, store))
}

func TestReleaseFailureRollsBackKey(t *testing.T) {
	store, l := setup(t, models.NewInventory(2))
	ctx := context.Background()
	store.InjectFailure("products.ReleaseStock", errors.New("boom"))

	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := l.Release(ctx, "o1", 0, "p1", 1)
		return err
	})
	require.Error(t, err)

	applied, err := store.Effects().Exists(ctx, ReleaseKey("o1", 0))
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = l.Release(ctx, "o1", 0, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, quantity(t, store))
}
