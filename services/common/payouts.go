package common

import (
	"github.com/shopspring/decimal"
)

// MinParlayLegs is the smallest leg count a persisted parlay may have.
// Anything below this is deleted rather than stored.
const MinParlayLegs = 2

// MinInsuranceLegs is the leg count at which parlay insurance unlocks.
const MinInsuranceLegs = 4

// SingleBetWinPoints is the streak award for a winning non-parlay selection.
var SingleBetWinPoints = decimal.NewFromInt(1)

// ParlayValue returns the streak points a parlay of n legs pays on a win.
// The curve doubles per added leg: 2 legs -> 2, 3 -> 4, 4 -> 8, and so on.
// Leg counts below the minimum have no defined value.
func ParlayValue(legs int) decimal.Decimal {
	if legs < MinParlayLegs {
		return decimal.Zero
	}
	value := decimal.NewFromInt(2)
	for i := MinParlayLegs; i < legs; i++ {
		value = value.Mul(decimal.NewFromInt(2))
	}
	return value
}

// InsuranceCost returns the cost of insuring a parlay of n legs: a quarter of
// the parlay's value. Zero below the insurance threshold.
func InsuranceCost(legs int) decimal.Decimal {
	if legs < MinInsuranceLegs {
		return decimal.Zero
	}
	return ParlayValue(legs).Div(decimal.NewFromInt(4))
}
