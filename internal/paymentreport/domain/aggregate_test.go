package domain

import (
	"testing"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/finance"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(estID snowflake.ID, bookingType bookingdomain.BookingType, date time.Time, amount, fees, owner float64) finance.Record {
	return finance.Record{
		EstablishmentID: estID,
		BookingType:     bookingType,
		BookingDate:     date,
		FinalAmount:     amount,
		PlatformFees:    finance.FeeBreakdown{TotalFees: fees},
		OwnerAmount:     owner,
		AmountHT:        amount / 1.038,
		TVA:             amount - amount/1.038,
	}
}

func TestAggregateGroupingCompleteness(t *testing.T) {
	estA := snowflake.ID(1)
	estB := snowflake.ID(2)
	establishments := map[snowflake.ID]establishmentdomain.Establishment{
		estA: {ID: estA, Slug: "hotel-a", Name: "Hotel A", BillingCompanyName: "Hotel A SA"},
		estB: {ID: estB, Slug: "camping-b", Name: "Camping B"},
	}

	may := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	records := []finance.Record{
		record(estA, bookingdomain.BookingTypeNight, may, 221, 13.05, 207.95),
		record(estA, bookingdomain.BookingTypeDay, may, 5, 0.25, 4.75),
		record(estB, bookingdomain.BookingTypeNight, june, 150, 9.5, 140.5),
		record(estB, "", june, 80, 6, 74), // empty type rolls into night
	}

	report := Aggregate(records, establishments)

	assert.Equal(t, 4, report.Summary.BookingCount)
	assert.InDelta(t, 456.0, report.Summary.TotalAmount, 1e-9)

	var estTotal, monthTotal, typeTotal float64
	for _, group := range report.ByEstablishment {
		estTotal += group.TotalAmount
	}
	for _, group := range report.ByMonth {
		monthTotal += group.TotalAmount
	}
	for _, group := range report.ByBookingType {
		typeTotal += group.TotalAmount
	}
	assert.InDelta(t, report.Summary.TotalAmount, estTotal, 1e-9)
	assert.InDelta(t, report.Summary.TotalAmount, monthTotal, 1e-9)
	assert.InDelta(t, report.Summary.TotalAmount, typeTotal, 1e-9)

	require.Len(t, report.ByEstablishment, 2)
	assert.Equal(t, "camping-b", report.ByEstablishment[0].Slug)
	assert.Equal(t, "Hotel A SA", report.ByEstablishment[1].Billing.CompanyName)

	require.Len(t, report.ByMonth, 2)
	assert.Equal(t, "2026-05", report.ByMonth[0].Month)
	assert.Equal(t, "2026-06", report.ByMonth[1].Month)

	require.Len(t, report.ByBookingType, 2)
	assert.Equal(t, bookingdomain.BookingTypeDay, report.ByBookingType[0].BookingType)
	assert.Equal(t, 1, report.ByBookingType[0].BookingCount)
	assert.Equal(t, bookingdomain.BookingTypeNight, report.ByBookingType[1].BookingType)
	assert.Equal(t, 3, report.ByBookingType[1].BookingCount)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, nil)
	assert.Zero(t, report.Summary.BookingCount)
	assert.Empty(t, report.ByEstablishment)
	assert.Empty(t, report.ByMonth)
	assert.Empty(t, report.ByBookingType)
}
