package finance

import (
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/alpenstay/alpenstay/internal/pricingoption/engine"
	"github.com/bwmarrin/snowflake"
)

// Record is the authoritative per-booking financial breakdown consumed by
// the payment report, invoice PDF and Excel export.
type Record struct {
	BookingID       snowflake.ID                `json:"bookingId"`
	Reference       string                      `json:"reference"`
	EstablishmentID snowflake.ID                `json:"establishmentId"`
	BookingType     bookingdomain.BookingType   `json:"bookingType"`
	BookingDate     time.Time                   `json:"bookingDate"`
	PaymentStatus   bookingdomain.PaymentStatus `json:"paymentStatus"`

	BaseRoomCost        float64 `json:"baseRoomCost"`
	PricingOptionsTotal float64 `json:"pricingOptionsTotal"`
	TouristTaxTotal     float64 `json:"touristTaxTotal"`
	Subtotal            float64 `json:"subtotal"`

	PlatformFees FeeBreakdown `json:"platformFees"`
	OwnerAmount  float64      `json:"ownerAmount"`

	// FinalAmount is always the stored booking amount. The decomposition
	// above is informational; it must never alter what the guest was
	// actually charged.
	FinalAmount float64 `json:"finalAmount"`

	AmountHT float64    `json:"amountHT"`
	TVA      float64    `json:"tva"`
	VATSplit BookingVAT `json:"-"`

	StripeFee             float64               `json:"stripeFee"`
	RecordedCommission    float64               `json:"recordedCommission"`
	RecordedOwnerAmount   float64               `json:"recordedOwnerAmount"`
	PricingOptionsDetails []engine.OptionDetail `json:"pricingOptionsDetails"`
}

// RateFraction picks the commission rate for a booking type: overnight
// stays use the establishment rate, day parking its own rate.
func RateFraction(est establishmentdomain.Establishment, bookingType bookingdomain.BookingType) float64 {
	if bookingType.Normalize() == bookingdomain.BookingTypeDay {
		return est.DayParkingCommissionRate / 100
	}
	return est.CommissionRate / 100
}

// Assemble combines the option engine, fee calculator and tax splitter
// into one record. The catalog may be nil; option details then only
// resolve for bookings carrying an enriched snapshot.
func Assemble(
	booking bookingdomain.Booking,
	est establishmentdomain.Establishment,
	catalog []pricingoptiondomain.CatalogOption,
	vatRate float64,
) Record {
	subtotal := booking.BaseRoomCost() + booking.PricingOptionsTotal + booking.TouristTaxTotal

	fees, ownerAmount := CalculateFees(subtotal, RateFraction(est, booking.BookingType), est.FixedFee, RoundNone)
	vat := SplitBookingVAT(booking.Amount, booking.TouristTaxTotal, booking.PricingOptionsTotal, vatRate)

	var details []engine.OptionDetail
	if selection, err := pricingoptiondomain.DecodeSelection(booking.SelectedPricingOptions); err == nil {
		details = engine.Details(selection, catalog)
	}

	return Record{
		BookingID:       booking.ID,
		Reference:       booking.Reference,
		EstablishmentID: booking.EstablishmentID,
		BookingType:     booking.BookingType.Normalize(),
		BookingDate:     booking.BookingDate,
		PaymentStatus:   booking.PaymentStatus,

		BaseRoomCost:        booking.BaseRoomCost(),
		PricingOptionsTotal: booking.PricingOptionsTotal,
		TouristTaxTotal:     booking.TouristTaxTotal,
		Subtotal:            subtotal,

		PlatformFees: fees,
		OwnerAmount:  ownerAmount,
		FinalAmount:  booking.Amount,

		AmountHT: vat.AmountHT,
		TVA:      vat.VAT,
		VATSplit: vat,

		StripeFee:             booking.StripeFee,
		RecordedCommission:    booking.PlatformCommission,
		RecordedOwnerAmount:   booking.OwnerAmount,
		PricingOptionsDetails: details,
	}
}
