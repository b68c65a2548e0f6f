package finance

// VATSplit backs the net amount out of a tax-included total.
type VATSplit struct {
	AmountHT float64 `json:"amountHT"`
	VAT      float64 `json:"vat"`
}

// SplitVAT backs VAT out of a TTC amount: amountHT = ttc / (1 + rate).
// Zero or negative input follows the same formula with no special-casing;
// a booking can consist purely of VAT-exempt tourist tax.
func SplitVAT(ttc, vatRate float64) VATSplit {
	amountHT := ttc / (1 + vatRate)
	return VATSplit{
		AmountHT: amountHT,
		VAT:      ttc - amountHT,
	}
}

// BookingVAT is the per-booking VAT breakdown, split by category so room
// and option revenue can be reported separately.
type BookingVAT struct {
	BaseAmountTTC    float64 `json:"baseAmountTTC"`
	OptionsAmountTTC float64 `json:"optionsAmountTTC"`
	BaseHT           float64 `json:"baseAmountHT"`
	BaseVAT          float64 `json:"baseVAT"`
	OptionsHT        float64 `json:"optionsAmountHT"`
	OptionsVAT       float64 `json:"optionsVAT"`
	AmountHT         float64 `json:"amountHT"`
	VAT              float64 `json:"tva"`
}

// SplitBookingVAT removes the VAT-exempt tourist tax from the charged
// amount, splits the remainder into base stay and options, and applies
// SplitVAT to each category BEFORE summing. The split-then-sum order is
// load-bearing: summing first and splitting once rounds differently and
// would not reproduce historical report totals.
func SplitBookingVAT(amount, touristTaxTotal, pricingOptionsTotal, vatRate float64) BookingVAT {
	amountWithoutTouristTax := amount - touristTaxTotal
	baseTTC := amountWithoutTouristTax - pricingOptionsTotal
	optionsTTC := pricingOptionsTotal

	base := SplitVAT(baseTTC, vatRate)
	options := SplitVAT(optionsTTC, vatRate)

	return BookingVAT{
		BaseAmountTTC:    baseTTC,
		OptionsAmountTTC: optionsTTC,
		BaseHT:           base.AmountHT,
		BaseVAT:          base.VAT,
		OptionsHT:        options.AmountHT,
		OptionsVAT:       options.VAT,
		AmountHT:         base.AmountHT + options.AmountHT,
		VAT:              base.VAT + options.VAT,
	}
}
