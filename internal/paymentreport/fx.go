package paymentreport

import (
	"github.com/alpenstay/alpenstay/internal/paymentreport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentreport",
	fx.Provide(
		service.NewService,
	),
)
