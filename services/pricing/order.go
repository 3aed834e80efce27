package pricing

import (
	"fmt"

	"plantco/models"
	"plantco/utils"

	"github.com/shopspring/decimal"
)

// LineTotal is quantity x unit price.
func LineTotal(quantity int, unitPrice float64) float64 {
	return float(money(unitPrice).Mul(decimal.NewFromInt(int64(quantity))))
}

// ComputeOrder derives the pricing block for items plus the given charges.
// Totals below zero are rejected.
func ComputeOrder(items []models.OrderItem, shipping, tax, discount float64, currency string) (models.Pricing, error) {
	for name, v := range map[string]float64{"shipping": shipping, "tax": tax, "discount": discount} {
		if v < 0 {
			return models.Pricing{}, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("%s must not be negative", name))
		}
	}

	subtotal := decimal.Zero
	for _, it := range items {
		if it.Quantity < 1 {
			return models.Pricing{}, utils.NewValidationError(utils.CodeInvalidInput, "item quantity must be at least 1")
		}
		if it.Price < 0 {
			return models.Pricing{}, utils.NewValidationError(utils.CodeInvalidInput, "item price must not be negative")
		}
		subtotal = subtotal.Add(money(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	total := subtotal.Add(money(shipping)).Add(money(tax)).Sub(money(discount))
	if total.IsNegative() {
		return models.Pricing{}, utils.NewValidationError(utils.CodePricingMismatch, "discount exceeds order value")
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}

	return models.Pricing{
		Subtotal: float(subtotal),
		Shipping: float(money(shipping)),
		Tax:      float(money(tax)),
		Discount: float(money(discount)),
		Total:    float(total),
		Currency: currency,
	}, nil
}

// CheckOrder recomputes the pricing for items from the submitted charges and
// fails if the submitted subtotal or total disagree. The recomputed block is
// returned on success.
func CheckOrder(submitted models.Pricing, items []models.OrderItem) (models.Pricing, error) {
	computed, err := ComputeOrder(items, submitted.Shipping, submitted.Tax, submitted.Discount, submitted.Currency)
	if err != nil {
		return models.Pricing{}, err
	}
	if !Equal(submitted.Subtotal, computed.Subtotal) {
		return models.Pricing{}, utils.NewValidationError(utils.CodePricingMismatch,
			fmt.Sprintf("subtotal %.2f does not match items total %.2f", submitted.Subtotal, computed.Subtotal))
	}
	if !Equal(submitted.Total, computed.Total) {
		return models.Pricing{}, utils.NewValidationError(utils.CodePricingMismatch,
			fmt.Sprintf("total %.2f does not match subtotal + shipping + tax - discount = %.2f", submitted.Total, computed.Total))
	}
	return computed, nil
}
