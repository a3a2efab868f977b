// Package calc centralizes the financial calculations and formatters shared
// by the dashboard, company list and detail views, so every surface derives
// implied value, MOIC and currency strings the same way.
package calc

import (
	"math"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

// Placeholder renders wherever a value is missing rather than zero, so "no
// data" stays distinguishable from "actually zero".
const Placeholder = "—"

// ImpliedValue marks a holding to the latest priced round. With positive
// shares and a positive latest price per share the mark is shares * pps;
// otherwise the holding is unpriced (e.g. a SAFE) and falls back to cost
// basis, a 1.0x MOIC floor.
func ImpliedValue(shares, costBasis, latestPPS float64) float64 {
	validShares := !math.IsNaN(shares) && shares > 0
	validPPS := !math.IsNaN(latestPPS) && latestPPS > 0
	if validShares && validPPS {
		return shares * latestPPS
	}
	return costBasis
}

// TotalInvested sums amount_invested across transactions, treating NaN as 0.
func TotalInvested(transactions []entity.Transaction) float64 {
	var total float64
	for _, tx := range transactions {
		if math.IsNaN(tx.AmountInvested) {
			continue
		}
		total += tx.AmountInvested
	}
	return total
}

// MOIC formats implied value over invested capital as a multiple ("2.50x").
// Zero or invalid invested capital renders the placeholder instead of a
// division by zero.
func MOIC(invested, impliedValue float64) string {
	if math.IsNaN(invested) || invested <= 0 {
		return Placeholder
	}
	return decimal.NewFromFloat(impliedValue / invested).StringFixed(2) + "x"
}

// FormatCurrency renders a USD amount with two decimals. Zero and NaN render
// the placeholder.
func FormatCurrency(amount float64) string {
	if amount == 0 || math.IsNaN(amount) {
		return Placeholder
	}
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return gomoney.New(cents, gomoney.USD).Display()
}

// FormatCompact renders a USD amount in compact notation with at most one
// fractional digit ("$1.5M"). Zero and NaN render the placeholder.
func FormatCompact(amount float64) string {
	if amount == 0 || math.IsNaN(amount) {
		return Placeholder
	}
	sign := ""
	abs := amount
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	suffix := ""
	divisor := 1.0
	switch {
	case abs >= 1e9:
		suffix, divisor = "B", 1e9
	case abs >= 1e6:
		suffix, divisor = "M", 1e6
	case abs >= 1e3:
		suffix, divisor = "K", 1e3
	}
	return sign + "$" + decimal.NewFromFloat(abs/divisor).Round(1).String() + suffix
}
