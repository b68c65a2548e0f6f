package establishment

import (
	"github.com/alpenstay/alpenstay/internal/establishment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("establishment.service",
	fx.Provide(service.NewService),
)
