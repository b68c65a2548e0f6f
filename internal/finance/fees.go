// Package finance holds the pure money rules of the platform: platform
// fee computation, VAT extraction and the per-booking financial record
// consumed by reports and invoices. Nothing here touches storage or the
// payment processor.
package finance

import "math"

// RoundingPolicy makes the commission rounding an explicit choice of the
// call site. Report and invoice paths keep full precision and round only
// when formatting; the day-parking tariff validation rounds to whole
// francs before comparing against the tariff.
type RoundingPolicy int

const (
	RoundNone RoundingPolicy = iota
	RoundNearestFranc
)

// FeeBreakdown decomposes the platform's cut of a subtotal.
type FeeBreakdown struct {
	Commission float64 `json:"commission"`
	FixedFee   float64 `json:"fixedFee"`
	TotalFees  float64 `json:"totalFees"`
}

// CalculateFees computes the platform commission, total fees and owner
// payout for a subtotal. rateFraction is in [0,1]. No clamping happens
// here: a configuration where fees meet or exceed the subtotal yields a
// negative owner amount, and callers decide whether that is acceptable.
func CalculateFees(subtotal, rateFraction, fixedFee float64, rounding RoundingPolicy) (FeeBreakdown, float64) {
	commission := subtotal * rateFraction
	if rounding == RoundNearestFranc {
		commission = math.Round(commission)
	}

	fees := FeeBreakdown{
		Commission: commission,
		FixedFee:   fixedFee,
		TotalFees:  commission + fixedFee,
	}
	return fees, subtotal - fees.TotalFees
}

// RoundCents rounds to two decimals. Presentation boundary only; the
// calculation paths carry full precision.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
