// Package pricing holds the pure order and booking price calculations. All
// arithmetic runs on decimals rounded to cents.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func float(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// Equal compares two amounts at cent precision.
func Equal(a, b float64) bool {
	return money(a).Equal(money(b))
}
