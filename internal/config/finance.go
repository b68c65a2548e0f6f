package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FinancePolicy carries the tunable money rules that must never be
// hard-coded literals in calculation code: VAT rates, default commission
// configuration and the commission verification tolerance.
//
// The report and invoice paths historically disagreed on the VAT rate
// (3.8% vs 8.1%); both are kept explicit here and the holder warns when
// they differ instead of silently picking one.
type FinancePolicy struct {
	ReportVATRate  float64 `mapstructure:"reportVATRate"`
	InvoiceVATRate float64 `mapstructure:"invoiceVATRate"`

	DefaultCommissionRate           float64 `mapstructure:"defaultCommissionRate"`
	DefaultFixedFee                 float64 `mapstructure:"defaultFixedFee"`
	DefaultDayParkingCommissionRate float64 `mapstructure:"defaultDayParkingCommissionRate"`

	CommissionTolerance float64 `mapstructure:"commissionTolerance"`
}

func DefaultFinancePolicy() FinancePolicy {
	return FinancePolicy{
		ReportVATRate:                   0.038,
		InvoiceVATRate:                  0.081,
		DefaultCommissionRate:           5.0,
		DefaultFixedFee:                 2.0,
		DefaultDayParkingCommissionRate: 5.0,
		CommissionTolerance:             0.01,
	}
}

// FinancePolicyHolder hot-reloads the finance policy file so rate changes
// do not require a restart.
type FinancePolicyHolder struct {
	current atomic.Value // holds FinancePolicy
}

func NewFinancePolicyHolder() (*FinancePolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("finance")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/alpenstay/config")
	v.AddConfigPath("/etc/alpenstay")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ALPENSTAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultFinancePolicy()
	v.SetDefault("finance.reportVATRate", defaults.ReportVATRate)
	v.SetDefault("finance.invoiceVATRate", defaults.InvoiceVATRate)
	v.SetDefault("finance.defaultCommissionRate", defaults.DefaultCommissionRate)
	v.SetDefault("finance.defaultFixedFee", defaults.DefaultFixedFee)
	v.SetDefault("finance.defaultDayParkingCommissionRate", defaults.DefaultDayParkingCommissionRate)
	v.SetDefault("finance.commissionTolerance", defaults.CommissionTolerance)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	holder := &FinancePolicyHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Printf("finance policy reload failed: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

func (h *FinancePolicyHolder) reload(v *viper.Viper) error {
	var cfg FinancePolicy
	if err := v.UnmarshalKey("finance", &cfg); err != nil {
		return err
	}
	if cfg.CommissionTolerance <= 0 {
		cfg.CommissionTolerance = DefaultFinancePolicy().CommissionTolerance
	}
	if cfg.ReportVATRate != cfg.InvoiceVATRate {
		log.Printf("finance policy: report VAT rate %.4f differs from invoice VAT rate %.4f", cfg.ReportVATRate, cfg.InvoiceVATRate)
	}
	h.current.Store(cfg)
	return nil
}

// NewStaticFinancePolicyHolder wraps a fixed policy, for tests and tools
// that do not watch a config file.
func NewStaticFinancePolicyHolder(policy FinancePolicy) *FinancePolicyHolder {
	holder := &FinancePolicyHolder{}
	holder.current.Store(policy)
	return holder
}

// Current returns the latest loaded policy.
func (h *FinancePolicyHolder) Current() FinancePolicy {
	value := h.current.Load()
	if value == nil {
		return DefaultFinancePolicy()
	}
	return value.(FinancePolicy)
}
