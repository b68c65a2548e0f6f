package finance

import (
	"testing"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func testEstablishment() establishmentdomain.Establishment {
	return establishmentdomain.Establishment{
		ID:                       42,
		Slug:                     "hotel-bellevue",
		Name:                     "Hôtel Bellevue",
		CommissionRate:           5,
		FixedFee:                 2,
		DayParkingCommissionRate: 5,
	}
}

func testBooking() bookingdomain.Booking {
	return bookingdomain.Booking{
		ID:                  1001,
		Reference:           "01J8XQ4T3V9",
		EstablishmentID:     42,
		BookingType:         bookingdomain.BookingTypeNight,
		BookingDate:         time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Duration:            2,
		RoomPrice:           100,
		PricingOptionsTotal: 15,
		TouristTaxTotal:     6,
		Amount:              221,
		PaymentStatus:       bookingdomain.PaymentStatusSucceeded,
		SelectedPricingOptions: datatypes.JSON(
			`[{"name":"Petit-déjeuner","label":"Oui","price":15}]`,
		),
		PlatformCommission: 13.05,
		OwnerAmount:        207.95,
		StripeFee:          3.2,
	}
}

func TestAssembleScenario(t *testing.T) {
	record := Assemble(testBooking(), testEstablishment(), nil, 0.038)

	assert.InDelta(t, 200, record.BaseRoomCost, 1e-9)
	assert.InDelta(t, 221, record.Subtotal, 1e-9)
	assert.InDelta(t, 11.05, record.PlatformFees.Commission, 1e-9)
	assert.InDelta(t, 13.05, record.PlatformFees.TotalFees, 1e-9)
	assert.InDelta(t, 207.95, record.OwnerAmount, 1e-9)
	assert.InDelta(t, 207.13, RoundCents(record.AmountHT), 1e-9)
	assert.InDelta(t, 7.87, RoundCents(record.TVA), 1e-9)

	assert.Len(t, record.PricingOptionsDetails, 1)
	assert.Equal(t, "Petit-déjeuner: Oui", record.PricingOptionsDetails[0].Name)
}

func TestAssembleFinalAmountIsAuthoritative(t *testing.T) {
	booking := testBooking()
	// Stored amount deliberately disagrees with the recomputed subtotal.
	booking.Amount = 500

	record := Assemble(booking, testEstablishment(), nil, 0.038)

	assert.InDelta(t, 500, record.FinalAmount, 1e-9)
	assert.InDelta(t, 221, record.Subtotal, 1e-9)
}

func TestAssembleDayParkingUsesOwnRate(t *testing.T) {
	est := testEstablishment()
	est.CommissionRate = 10
	est.DayParkingCommissionRate = 5
	est.FixedFee = 0

	booking := testBooking()
	booking.BookingType = bookingdomain.BookingTypeDay
	booking.Duration = 1
	booking.RoomPrice = 20
	booking.PricingOptionsTotal = 0
	booking.TouristTaxTotal = 0
	booking.Amount = 20
	booking.SelectedPricingOptions = nil

	record := Assemble(booking, est, nil, 0.038)

	assert.InDelta(t, 1, record.PlatformFees.Commission, 1e-9) // 5%, not 10%
	assert.InDelta(t, 19, record.OwnerAmount, 1e-9)
}

func TestAssembleEmptyBookingTypeDefaultsToNight(t *testing.T) {
	booking := testBooking()
	booking.BookingType = ""

	record := Assemble(booking, testEstablishment(), nil, 0.038)

	assert.Equal(t, bookingdomain.BookingTypeNight, record.BookingType)
	assert.InDelta(t, 11.05, record.PlatformFees.Commission, 1e-9)
}

func TestAssembleCorruptSelectionYieldsNoDetails(t *testing.T) {
	booking := testBooking()
	booking.SelectedPricingOptions = datatypes.JSON(`{broken`)

	record := Assemble(booking, testEstablishment(), nil, 0.038)

	assert.Empty(t, record.PricingOptionsDetails)
	assert.InDelta(t, 221, record.FinalAmount, 1e-9)
}
