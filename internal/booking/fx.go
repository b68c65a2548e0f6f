package booking

import (
	"github.com/alpenstay/alpenstay/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking",
	fx.Provide(
		service.NewService,
	),
)
