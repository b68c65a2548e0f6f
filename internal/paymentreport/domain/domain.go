// Package domain defines the payment report read models. The report is
// the owner-facing financial statement: per-booking breakdowns plus
// establishment, month and booking-type rollups.
package domain

import (
	"context"
	"errors"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/finance"
	"github.com/bwmarrin/snowflake"
)

// Filter restricts the report. Date bounds are inclusive on bookingDate.
// AuthorizedSlugs is the caller's establishment scope; nil means
// unrestricted (super admin).
type Filter struct {
	StartDate          *time.Time
	EndDate            *time.Time
	EstablishmentSlug  string
	IncludeAccountFees bool

	AuthorizedSlugs []string

	// VATRate overrides the configured report VAT rate when positive.
	// The invoice rendering path sets it to the invoice rate.
	VATRate float64
}

// AccountFees is the processor-side fee total for the report window.
// Degraded marks a failed ledger fetch; it is never reported as a plain
// zero.
type AccountFees struct {
	Amount   float64 `json:"amount"`
	Degraded bool    `json:"degraded"`
}

// EstablishmentGroup is the per-establishment rollup, with the billing
// header carried verbatim for invoicing.
type EstablishmentGroup struct {
	EstablishmentID  snowflake.ID                    `json:"establishmentId"`
	Name             string                          `json:"name"`
	Slug             string                          `json:"slug"`
	Billing          establishmentdomain.BillingInfo `json:"billing"`
	BookingCount     int                             `json:"bookingCount"`
	TotalAmount      float64                         `json:"totalAmount"`
	TotalCommission  float64                         `json:"totalCommission"`
	TotalOwnerAmount float64                         `json:"totalOwnerAmount"`
}

// MonthGroup keys on the YYYY-MM truncation of bookingDate.
type MonthGroup struct {
	Month            string  `json:"month"`
	BookingCount     int     `json:"bookingCount"`
	TotalAmount      float64 `json:"totalAmount"`
	TotalCommission  float64 `json:"totalCommission"`
	TotalOwnerAmount float64 `json:"totalOwnerAmount"`
}

// TypeGroup keys on the booking type, night by default.
type TypeGroup struct {
	BookingType     bookingdomain.BookingType `json:"bookingType"`
	BookingCount    int                       `json:"bookingCount"`
	TotalAmount     float64                   `json:"totalAmount"`
	TotalCommission float64                   `json:"totalCommission"`
}

// Summary sums the whole filtered booking set.
type Summary struct {
	BookingCount        int     `json:"bookingCount"`
	TotalAmount         float64 `json:"totalAmount"`
	TotalAmountHT       float64 `json:"totalAmountHT"`
	TotalTVA            float64 `json:"totalTVA"`
	TotalCommission     float64 `json:"totalCommission"`
	TotalOwnerAmount    float64 `json:"totalOwnerAmount"`
	TotalTouristTax     float64 `json:"totalTouristTax"`
	TotalPricingOptions float64 `json:"totalPricingOptions"`
	TotalStripeFees     float64 `json:"totalStripeFees"`

	AccountFees *AccountFees `json:"accountFees,omitempty"`
}

// Report is the aggregate response of the payment report endpoint.
type Report struct {
	Summary         Summary              `json:"summary"`
	ByEstablishment []EstablishmentGroup `json:"byEstablishment"`
	ByMonth         []MonthGroup         `json:"byMonth"`
	ByBookingType   []TypeGroup          `json:"byBookingType"`
	Bookings        []finance.Record     `json:"bookings"`

	VATRate float64 `json:"vatRate"`
}

type Service interface {
	Generate(ctx context.Context, filter Filter) (*Report, error)
}

var (
	ErrEstablishmentNotAllowed = errors.New("establishment_not_allowed")
	ErrInvalidDateRange        = errors.New("invalid_date_range")
)
