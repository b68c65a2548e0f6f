package payment

import (
	"github.com/alpenstay/alpenstay/internal/config"
	"github.com/alpenstay/alpenstay/internal/payment/adapters/stripe"
	"github.com/alpenstay/alpenstay/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("payment",
	fx.Provide(
		newProcessor,
		newWebhookHandler,
	),
)

func newProcessor(cfg config.Config, log *zap.Logger) domain.Processor {
	return stripe.NewClient(cfg.StripeSecretKey, log)
}

func newWebhookHandler(cfg config.Config, log *zap.Logger) domain.WebhookHandler {
	handler, err := stripe.NewWebhook(cfg.StripeWebhookSecret)
	if err != nil {
		log.Warn("stripe webhook secret not set, webhook verification disabled")
		return disabledWebhook{}
	}
	return handler
}
