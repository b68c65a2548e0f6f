// Package domain defines the commission verification read models.
package domain

import (
	"context"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	"github.com/bwmarrin/snowflake"
)

// BookingCheck compares one booking's recorded commission against what
// the current establishment configuration would charge.
type BookingCheck struct {
	BookingID         snowflake.ID              `json:"bookingId"`
	Reference         string                    `json:"reference"`
	EstablishmentID   snowflake.ID              `json:"establishmentId"`
	EstablishmentName string                    `json:"establishmentName"`
	BookingType       bookingdomain.BookingType `json:"bookingType"`
	BookingDate       time.Time                 `json:"bookingDate"`

	Amount             float64 `json:"amount"`
	CommissionRate     float64 `json:"commissionRate"`
	FixedFee           float64 `json:"fixedFee"`
	ActualCommission   float64 `json:"actualCommission"`
	ExpectedCommission float64 `json:"expectedCommission"`

	// CommissionDifference is the signed actual minus expected delta.
	CommissionDifference float64 `json:"commissionDifference"`
	IsCommissionCorrect  bool    `json:"isCommissionCorrect"`

	// PaymentPending marks bookings without a processor payment intent.
	// They stay part of the correctness counts.
	PaymentPending bool `json:"paymentPending"`
}

// Summary aggregates one verification run.
type Summary struct {
	TotalBookings        int     `json:"totalBookings"`
	TotalCommissions     float64 `json:"totalCommissions"`
	CommissionsCorrect   int     `json:"commissionsCorrect"`
	CommissionsIncorrect int     `json:"commissionsIncorrect"`
	PendingPayments      int     `json:"pendingPayments"`
	Accuracy             float64 `json:"accuracy"`
}

// Result is the commission verification response body.
type Result struct {
	Summary  Summary        `json:"summary"`
	Bookings []BookingCheck `json:"bookings"`
}

type Service interface {
	// Verify checks the limit most recent succeeded bookings. A
	// non-positive limit uses the default report scope.
	Verify(ctx context.Context, limit int) (*Result, error)
}
