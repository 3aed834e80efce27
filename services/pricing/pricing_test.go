package pricing

import (
	"errors"
	"testing"

	"plantco/models"
	"plantco/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(lines ...[2]float64) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.OrderItem{Price: l[0], Quantity: int(l[1])})
	}
	return out
}

func TestComputeOrder(t *testing.T) {
	p, err := ComputeOrder(items([2]float64{19.99, 3}, [2]float64{5.05, 1}), 4.5, 2.25, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 65.02, p.Subtotal)
	assert.Equal(t, 61.77, p.Total)
	assert.Equal(t, models.DefaultCurrency, p.Currency)
}

func TestComputeOrderRejectsNegative(t *testing.T) {
	_, err := ComputeOrder(items([2]float64{10, 1}), -1, 0, 0, "")
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = ComputeOrder(items([2]float64{10, 1}), 0, 0, 20, "")
	assert.Equal(t, utils.CodePricingMismatch, utils.CodeOf(err))
}

func TestCheckOrder(t *testing.T) {
	its := items([2]float64{0.1, 3})
	ok := models.Pricing{Subtotal: 0.3, Shipping: 1, Tax: 0.2, Discount: 0.5, Total: 1.0}
	p, err := CheckOrder(ok, its)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Total)

	badSubtotal := ok
	badSubtotal.Subtotal = 0.31
	_, err = CheckOrder(badSubtotal, its)
	assert.True(t, errors.Is(err, utils.NewValidationError(utils.CodePricingMismatch, "")))

	badTotal := ok
	badTotal.Total = 1.5
	_, err = CheckOrder(badTotal, its)
	assert.Equal(t, utils.CodePricingMismatch, utils.CodeOf(err))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 59.97, LineTotal(3, 19.99))
}

func TestQuoteBooking(t *testing.T) {
	tests := []struct {
		name  string
		quote BookingQuote
		want  models.PriceBreakdown
	}{
		{
			name:  "base only",
			quote: BookingQuote{HourlyRate: 40, BaseDuration: 2, Duration: 2},
			want:  models.PriceBreakdown{BasePrice: 80, Subtotal: 80, TotalAmount: 80},
		},
		{
			name:  "extra hours and travel",
			quote: BookingQuote{HourlyRate: 40, BaseDuration: 2, Duration: 3.5, TravelFee: 15},
			want:  models.PriceBreakdown{BasePrice: 80, ExtraHours: 1.5, ExtraHoursCost: 60, TravelFee: 15, Subtotal: 155, TotalAmount: 155},
		},
		{
			name:  "minimum charge",
			quote: BookingQuote{HourlyRate: 20, BaseDuration: 1, Duration: 1, MinimumCharge: 50},
			want:  models.PriceBreakdown{BasePrice: 20, MinimumChargeAdjustment: 30, Subtotal: 50, TotalAmount: 50},
		},
		{
			name: "add-ons with percentage promo",
			quote: BookingQuote{
				HourlyRate: 50, BaseDuration: 1, Duration: 1,
				AddOns: []models.AdditionalService{{Price: 25}, {Price: 25}},
				Promo:  &models.PromoCode{Type: models.PromoPercentage, Value: 10},
			},
			want: models.PriceBreakdown{BasePrice: 50, AdditionalServicesTotal: 50, Subtotal: 100, PromoDiscount: 10, TotalAmount: 90},
		},
		{
			name: "fixed promo",
			quote: BookingQuote{
				HourlyRate: 30, BaseDuration: 1, Duration: 1,
				Promo: &models.PromoCode{Type: models.PromoFixed, Value: 5},
			},
			want: models.PriceBreakdown{BasePrice: 30, Subtotal: 30, PromoDiscount: 5, TotalAmount: 25},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteBooking(tt.quote)
			require.NoError(t, err)
			assert.Equal(t, tt.want.BasePrice, got.BasePrice)
			assert.Equal(t, tt.want.ExtraHours, got.ExtraHours)
			assert.Equal(t, tt.want.ExtraHoursCost, got.ExtraHoursCost)
			assert.Equal(t, tt.want.MinimumChargeAdjustment, got.MinimumChargeAdjustment)
			assert.Equal(t, tt.want.TravelFee, got.TravelFee)
			assert.Equal(t, tt.want.AdditionalServicesTotal, got.AdditionalServicesTotal)
			assert.Equal(t, tt.want.Subtotal, got.Subtotal)
			assert.Equal(t, tt.want.PromoDiscount, got.PromoDiscount)
			assert.Equal(t, tt.want.TotalAmount, got.TotalAmount)
		})
	}
}

func TestQuoteBookingRejects(t *testing.T) {
	_, err := QuoteBooking(BookingQuote{HourlyRate: 10, Duration: 0.25})
	assert.Equal(t, utils.CodeInvalidInput, utils.CodeOf(err))

	_, err = QuoteBooking(BookingQuote{HourlyRate: 10, Duration: 1, Promo: &models.PromoCode{Type: models.PromoFixed, Value: 50}})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = QuoteBooking(BookingQuote{HourlyRate: 10, Duration: 1, Promo: &models.PromoCode{Type: models.PromoPercentage, Value: 150}})
	assert.Equal(t, utils.CodeInvalidInput, utils.CodeOf(err))
}
