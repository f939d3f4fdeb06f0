// Package money holds the rounding rules shared by every calculator.
package money

import "github.com/shopspring/decimal"

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Cents rounds a dollar amount to two decimal places
func Cents(v float64) float64 {
	return Round(v, 2)
}

// Sum adds dollar amounts exactly and returns the total rounded to cents
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}
