package migration

import (
	authdomain "github.com/alpenstay/alpenstay/internal/auth/domain"
	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	"github.com/alpenstay/alpenstay/internal/config"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite and mysql are dev conveniences; let gorm shape them.
			return conn.AutoMigrate(
				&establishmentdomain.Establishment{},
				&bookingdomain.Room{},
				&bookingdomain.Booking{},
				&pricingoptiondomain.PricingOption{},
				&authdomain.User{},
				&authdomain.UserEstablishment{},
				&authdomain.Session{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
