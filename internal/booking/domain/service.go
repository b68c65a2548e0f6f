package domain

import (
	"context"
	"time"

	paymentdomain "github.com/alpenstay/alpenstay/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
)

// CreateReservationRequest is the public reservation payload. Selected
// options use the id-mapping shape submitted by the booking form; the
// service resolves them against the live catalog and stores the enriched
// snapshot.
type CreateReservationRequest struct {
	EstablishmentSlug string              `json:"establishment"`
	RoomID            snowflake.ID        `json:"roomId"`
	ClientName        string              `json:"clientName"`
	ClientEmail       string              `json:"clientEmail"`
	BookingType       BookingType         `json:"bookingType"`
	BookingDate       time.Time           `json:"bookingDate"`
	Duration          int                 `json:"duration"`
	TouristTaxTotal   float64             `json:"touristTaxTotal"`
	SelectedOptions   map[string][]string `json:"selectedOptions"`
}

// Reservation is a created booking plus the processor handle the guest
// needs to confirm payment.
type Reservation struct {
	Booking      *Booking `json:"booking"`
	ClientSecret string   `json:"clientSecret,omitempty"`
}

type Service interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest) (*Reservation, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)

	// ApplyPaymentEvent updates the payment status of the booking the
	// webhook event refers to.
	ApplyPaymentEvent(ctx context.Context, event *paymentdomain.PaymentEvent) error
}
