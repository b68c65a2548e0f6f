// Package domain defines the boundary to the card payment processor. The
// rest of the codebase depends on these interfaces only; the stripe adapter
// is the single implementation.
package domain

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// PaymentIntent is the processor-side payment awaiting guest confirmation.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// CreateIntentParams describes a charge for one reservation. Amount and
// ApplicationFee are tax-included CHF values; the adapter converts to the
// processor's minor unit.
type CreateIntentParams struct {
	Amount         float64
	Currency       string
	Description    string
	ApplicationFee float64

	// Connected account receiving the owner share. Empty means the
	// platform account keeps the full amount.
	TransferAccountID string

	IdempotencyKey string
	Metadata       map[string]string
}

// EventType classifies webhook payment events.
const (
	EventTypePaymentSucceeded = "payment.succeeded"
	EventTypePaymentFailed    = "payment.failed"
)

// PaymentEvent is a verified, decoded webhook notification.
type PaymentEvent struct {
	Provider        string
	ProviderEventID string
	PaymentIntentID string
	Type            string
	Amount          float64
	Currency        string
	OccurredAt      time.Time
	RawPayload      []byte
}

// Processor creates charges and reads processor-side fee data.
type Processor interface {
	CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error)

	// ListBalanceTransactionFees sums the processor fees booked on the
	// given connected account over the inclusive date range.
	ListBalanceTransactionFees(ctx context.Context, accountID string, from, to time.Time) (float64, error)
}

// WebhookHandler verifies and decodes processor webhook deliveries.
type WebhookHandler interface {
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*PaymentEvent, error)
}

var (
	ErrNotConfigured        = errors.New("payment_processor_not_configured")
	ErrInvalidSignature     = errors.New("invalid_signature")
	ErrInvalidPayload       = errors.New("invalid_payload")
	ErrInvalidEvent         = errors.New("invalid_event")
	ErrEventIgnored         = errors.New("event_ignored")
	ErrProcessorUnavailable = errors.New("payment_processor_unavailable")
)
