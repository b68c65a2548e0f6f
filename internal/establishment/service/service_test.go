package service

import (
	"testing"

	"github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateDayParkingTariff(t *testing.T) {
	// 5 CHF at 5%: commission rounds to 0, below the tariff.
	assert.NoError(t, ValidateDayParkingTariff(5, 5))

	// 1 CHF at 100%: commission equals the tariff, rejected.
	assert.ErrorIs(t, ValidateDayParkingTariff(1, 100), domain.ErrTariffBelowCommission)

	assert.ErrorIs(t, ValidateDayParkingTariff(0, 5), domain.ErrTariffBelowCommission)
	assert.ErrorIs(t, ValidateDayParkingTariff(-3, 5), domain.ErrTariffBelowCommission)

	// 20 CHF at 5%: commission rounds to 1, valid.
	assert.NoError(t, ValidateDayParkingTariff(20, 5))
}

func TestValidateCommissionSettings(t *testing.T) {
	valid := domain.CommissionSettings{
		CommissionRate:           5,
		FixedFee:                 2,
		DayParkingCommissionRate: 5,
		DayParkingTariff:         5,
	}
	assert.NoError(t, ValidateCommissionSettings(valid))

	full := valid
	full.CommissionRate = 100
	assert.ErrorIs(t, ValidateCommissionSettings(full), domain.ErrInvalidCommissionRate)

	negative := valid
	negative.FixedFee = -1
	assert.ErrorIs(t, ValidateCommissionSettings(negative), domain.ErrInvalidFixedFee)

	badTariff := valid
	badTariff.DayParkingCommissionRate = 100
	badTariff.DayParkingTariff = 1
	assert.ErrorIs(t, ValidateCommissionSettings(badTariff), domain.ErrTariffBelowCommission)

	// Tariff not configured: no tariff check.
	noTariff := valid
	noTariff.DayParkingTariff = 0
	assert.NoError(t, ValidateCommissionSettings(noTariff))
}
