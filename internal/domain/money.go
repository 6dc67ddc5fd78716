package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale used for prices and amounts.
const MoneyPlaces = 2

// Column limits: quantities are INTEGER, unit_price NUMERIC(12,2),
// total_price NUMERIC(14,2).
const MaxQuantity = math.MaxInt32

var (
	MaxUnitPrice  = decimal.RequireFromString("9999999999.99")
	MaxTotalPrice = decimal.RequireFromString("999999999999.99")
)

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FloorQuantity truncates a quantity to a whole unit. It reports false when
// the result does not fit in [0, MaxQuantity].
func FloorQuantity(v float64) (int, bool) {
	f := math.Floor(v)
	if f < 0 || f > MaxQuantity {
		return 0, false
	}
	return int(f), true
}

// LineTotal is quantity × unit price at money scale.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// AverageCost is Σtotal / Σquantity, zero when nothing was received.
func AverageCost(totalCost decimal.Decimal, totalQuantity int64) decimal.Decimal {
	if totalQuantity == 0 {
		return decimal.Zero
	}
	return totalCost.Div(decimal.NewFromInt(totalQuantity))
}
