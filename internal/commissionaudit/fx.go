package commissionaudit

import (
	"github.com/alpenstay/alpenstay/internal/commissionaudit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commissionaudit",
	fx.Provide(
		service.NewService,
	),
)
