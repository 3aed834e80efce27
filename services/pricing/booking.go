package pricing

import (
	"fmt"

	"plantco/models"
	"plantco/utils"

	"github.com/shopspring/decimal"
)

// BookingQuote is everything a booking price depends on.
type BookingQuote struct {
	HourlyRate    float64
	BaseDuration  float64 // hours covered by the base price
	Duration      float64 // hours booked
	MinimumCharge float64
	TravelFee     float64
	AddOns        []models.AdditionalService
	Promo         *models.PromoCode
	Currency      string
}

// QuoteBooking prices a booking:
//
//	labour   = rate x baseDuration + rate x max(0, duration - baseDuration), raised to minimumCharge
//	subtotal = labour + travelFee + sum(add-ons)
//	total    = subtotal - promo
//
// A percentage promo applies to the subtotal.
func QuoteBooking(q BookingQuote) (models.PriceBreakdown, error) {
	switch {
	case q.Duration < models.MinBookingDuration:
		return models.PriceBreakdown{}, utils.NewValidationError(utils.CodeInvalidInput,
			fmt.Sprintf("duration must be at least %.1f hours", models.MinBookingDuration))
	case q.HourlyRate < 0, q.MinimumCharge < 0, q.TravelFee < 0:
		return models.PriceBreakdown{}, utils.NewValidationError(utils.CodeInvalidInput, "rates and fees must not be negative")
	}
	base := q.BaseDuration
	if base <= 0 {
		base = 1
	}

	rate := money(q.HourlyRate)
	baseDur := decimal.NewFromFloat(base)
	extraHours := decimal.Max(decimal.Zero, decimal.NewFromFloat(q.Duration).Sub(baseDur))

	basePrice := rate.Mul(baseDur).Round(2)
	extraCost := rate.Mul(extraHours).Round(2)
	labour := basePrice.Add(extraCost)

	adjustment := decimal.Zero
	if minimum := money(q.MinimumCharge); labour.LessThan(minimum) {
		adjustment = minimum.Sub(labour)
		labour = minimum
	}

	addOns := decimal.Zero
	for _, a := range q.AddOns {
		if a.Price < 0 {
			return models.PriceBreakdown{}, utils.NewValidationError(utils.CodeInvalidInput, "additional service price must not be negative")
		}
		addOns = addOns.Add(money(a.Price))
	}

	travel := money(q.TravelFee)
	subtotal := labour.Add(travel).Add(addOns)

	discount, err := promoDiscount(q.Promo, subtotal)
	if err != nil {
		return models.PriceBreakdown{}, err
	}
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return models.PriceBreakdown{}, utils.NewValidationError(utils.CodePricingMismatch, "promo discount exceeds booking value")
	}

	currency := q.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	return models.PriceBreakdown{
		HourlyRate:              float(rate),
		BaseDuration:            base,
		BasePrice:               float(basePrice),
		ExtraHours:              extraHours.InexactFloat64(),
		ExtraHoursCost:          float(extraCost),
		MinimumChargeAdjustment: float(adjustment),
		TravelFee:               float(travel),
		AdditionalServicesTotal: float(addOns),
		Subtotal:                float(subtotal),
		PromoDiscount:           float(discount),
		TotalAmount:             float(total),
		Currency:                currency,
	}, nil
}

func promoDiscount(p *models.PromoCode, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, nil
	}
	switch p.Type {
	case models.PromoFixed:
		if p.Value < 0 {
			return decimal.Zero, utils.NewValidationError(utils.CodeInvalidInput, "promo value must not be negative")
		}
		return money(p.Value), nil
	case models.PromoPercentage:
		if p.Value < 0 || p.Value > 100 {
			return decimal.Zero, utils.NewValidationError(utils.CodeInvalidInput, "promo percentage must be between 0 and 100")
		}
		return subtotal.Mul(decimal.NewFromFloat(p.Value)).Div(hundred).Round(2), nil
	default:
		return decimal.Zero, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("unknown promo type %q", p.Type))
	}
}
