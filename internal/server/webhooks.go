package server

import (
	"errors"
	"io"
	"net/http"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	paymentdomain "github.com/alpenstay/alpenstay/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleStripeWebhook verifies and applies payment processor events.
// Events for unknown intents are acknowledged anyway so the processor
// does not retry them forever.
func (s *Server) handleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	if err := s.webhook.Verify(ctx, payload, c.Request.Header); err != nil {
		if errors.Is(err, paymentdomain.ErrNotConfigured) {
			AbortWithError(c, err)
			return
		}
		AbortWithError(c, ErrUnauthorized)
		return
	}

	event, err := s.webhook.Parse(ctx, payload)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrEventIgnored) {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.bookingSvc.ApplyPaymentEvent(ctx, event); err != nil {
		if errors.Is(err, bookingdomain.ErrNotFound) {
			s.log.Warn("webhook event references unknown payment intent",
				zap.String("event_id", event.ProviderEventID),
				zap.String("payment_intent_id", event.PaymentIntentID))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
