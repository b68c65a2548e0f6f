package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitVATReconstruction(t *testing.T) {
	for _, ttc := range []float64{0, 0.05, 15, 200, 1234.56} {
		for _, rate := range []float64{0.025, 0.038, 0.081} {
			split := SplitVAT(ttc, rate)
			assert.InDelta(t, ttc, split.AmountHT+split.VAT, 1e-9)
			assert.InDelta(t, ttc/(1+rate), split.AmountHT, 1e-9)
		}
	}
}

func TestSplitVATDegenerateInputs(t *testing.T) {
	zero := SplitVAT(0, 0.038)
	assert.Zero(t, zero.AmountHT)
	assert.Zero(t, zero.VAT)

	// A booking consisting purely of tourist tax leaves a zero or even
	// negative VAT base; the formula applies unchanged.
	negative := SplitVAT(-10, 0.038)
	assert.InDelta(t, -10/1.038, negative.AmountHT, 1e-9)
	assert.InDelta(t, -10, negative.AmountHT+negative.VAT, 1e-9)
}

func TestSplitBookingVATScenario(t *testing.T) {
	// amount=221, touristTax=6 -> 215 taxable; options=15 -> base 200.
	vat := SplitBookingVAT(221, 6, 15, 0.038)

	assert.InDelta(t, 200, vat.BaseAmountTTC, 1e-9)
	assert.InDelta(t, 15, vat.OptionsAmountTTC, 1e-9)
	assert.InDelta(t, 192.68, RoundCents(vat.BaseHT), 1e-9)
	assert.InDelta(t, 14.45, RoundCents(vat.OptionsHT), 1e-9)
	assert.InDelta(t, 207.13, RoundCents(vat.AmountHT), 1e-9)
	assert.InDelta(t, 7.87, RoundCents(vat.VAT), 1e-9)
}

func TestSplitBookingVATSplitThenSumOrder(t *testing.T) {
	vat := SplitBookingVAT(221, 6, 15, 0.038)

	// The booking totals are the sum of the category splits, not a
	// single split of the summed TTC.
	assert.InDelta(t, vat.BaseHT+vat.OptionsHT, vat.AmountHT, 1e-12)
	assert.InDelta(t, vat.BaseVAT+vat.OptionsVAT, vat.VAT, 1e-12)
	assert.InDelta(t, 215, vat.AmountHT+vat.VAT, 1e-9)
}

func TestSplitBookingVATPureTouristTax(t *testing.T) {
	vat := SplitBookingVAT(6, 6, 0, 0.038)

	assert.Zero(t, vat.BaseAmountTTC)
	assert.InDelta(t, 0, vat.AmountHT, 1e-9)
	assert.InDelta(t, 0, vat.VAT, 1e-9)
}
