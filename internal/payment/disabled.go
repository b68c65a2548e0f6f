package payment

import (
	"context"
	"net/http"

	"github.com/alpenstay/alpenstay/internal/payment/domain"
)

// disabledWebhook rejects every delivery when no webhook secret is set.
type disabledWebhook struct{}

func (disabledWebhook) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	return domain.ErrNotConfigured
}

func (disabledWebhook) Parse(ctx context.Context, payload []byte) (*domain.PaymentEvent, error) {
	return nil, domain.ErrNotConfigured
}
