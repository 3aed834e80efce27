// Package inventory moves product stock. Every movement is recorded in the
// effects ledger under a key derived from the order line, so replaying a unit
// of work never moves the same units twice.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"plantco/database/repository"
	effectsRepo "plantco/database/repository/effects"
	productRepo "plantco/database/repository/product"
	"plantco/models"
	"plantco/utils"

	"go.uber.org/zap"
)

// Movement is the outcome of one reserve or release.
type Movement struct {
	ProductID string
	Units     int
	Inventory models.Inventory
	// Skipped is set when the key was already applied and nothing moved.
	Skipped bool
}

// LowStock reports whether the product sits at or below its threshold after
// the movement.
func (m Movement) LowStock() bool {
	return !m.Skipped && m.Inventory.IsLow()
}

type Ledger struct {
	Products productRepo.ProductRepository
	Effects  effectsRepo.EffectRepository
	Logger   *zap.Logger
}

func NewLedger(products productRepo.ProductRepository, effects effectsRepo.EffectRepository, logger *zap.Logger) *Ledger {
	return &Ledger{Products: products, Effects: effects, Logger: logger}
}

func ReserveKey(orderID string, line int) string {
	return fmt.Sprintf("order:%s:item:%d:reserve", orderID, line)
}

func ReleaseKey(orderID string, line int) string {
	return fmt.Sprintf("order:%s:item:%d:release", orderID, line)
}

// Reserve takes units of productID for line of orderID. It must run inside the
// same unit of work as the order write.
func (l *Ledger) Reserve(ctx context.Context, orderID string, line int, productID string, units int) (Movement, error) {
	if units < 1 {
		return Movement{}, utils.NewValidationError(utils.CodeInvalidInput, "quantity must be at least 1")
	}
	key := ReserveKey(orderID, line)
	fresh, err := l.Effects.Apply(ctx, key)
	if err != nil {
		return Movement{}, utils.NewInternal("failed to record reservation", err)
	}
	if !fresh {
		l.Logger.Debug("reservation already applied", zap.String("key", key))
		return Movement{ProductID: productID, Units: units, Skipped: true}, nil
	}

	inv, err := l.Products.ReserveStock(ctx, productID, units)
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		return Movement{}, utils.NewConflict(utils.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for product %s", productID))
	case errors.Is(err, repository.ErrNotFound):
		return Movement{}, utils.NewNotFound(utils.CodeProductNotFound,
			fmt.Sprintf("product %s not found", productID))
	case err != nil:
		return Movement{}, utils.NewInternal("failed to reserve stock", err)
	}

	m := Movement{ProductID: productID, Units: units, Inventory: *inv}
	if m.LowStock() {
		l.Logger.Warn("product stock low",
			zap.String("productId", productID),
			zap.Int("quantity", inv.Quantity),
			zap.Int("threshold", inv.LowStockThreshold))
	}
	return m, nil
}

// Release returns the units of one order line. Releasing a line twice is a
// no-op.
func (l *Ledger) Release(ctx context.Context, orderID string, line int, productID string, units int) (Movement, error) {
	key := ReleaseKey(orderID, line)
	fresh, err := l.Effects.Apply(ctx, key)
	if err != nil {
		l.Logger.Error("failed to record release", zap.String("key", key), zap.Error(err))
		return Movement{}, utils.NewInternal("failed to record release", err)
	}
	if !fresh {
		return Movement{ProductID: productID, Units: units, Skipped: true}, nil
	}

	inv, err := l.Products.ReleaseStock(ctx, productID, units)
	if err != nil {
		l.Logger.Error("failed to release stock",
			zap.String("key", key),
			zap.String("productId", productID),
			zap.Int("units", units),
			zap.Error(err))
		return Movement{}, utils.NewInternal("failed to release stock", err)
	}
	return Movement{ProductID: productID, Units: units, Inventory: *inv}, nil
}
