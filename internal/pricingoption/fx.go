package pricingoption

import (
	"github.com/alpenstay/alpenstay/internal/pricingoption/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricingoption",
	fx.Provide(
		service.NewService,
	),
)
