package observability

import (
	"github.com/alpenstay/alpenstay/internal/config"
	"github.com/alpenstay/alpenstay/internal/observability/logger"
	"github.com/alpenstay/alpenstay/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(newLoggerConfig),
	fx.Provide(logger.New),
	metrics.Module,
)

func newLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		Level:       cfg.LogLevel,
	}
}
