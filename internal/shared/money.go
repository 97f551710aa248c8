package shared

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var rupeePrinter = message.NewPrinter(language.English)

// FormatRupees renders an amount as a display string, e.g. "₹6,000.00".
// Used for the balance presentation fields; the numeric contract stays float64.
func FormatRupees(amount float64) string {
	return rupeePrinter.Sprintf("₹%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// RoundToRupee rounds to the nearest whole currency unit, halves away from zero.
func RoundToRupee(v float64) float64 {
	return math.Round(v)
}

// RoundToPaise rounds to two decimal places, halves away from zero.
func RoundToPaise(v float64) float64 {
	return math.Round(v*100) / 100
}
