package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// CommissionSettings is the mutable commission configuration of an
// establishment, validated before persisting.
type CommissionSettings struct {
	CommissionRate           float64 `json:"commissionRate"`
	FixedFee                 float64 `json:"fixedFee"`
	DayParkingCommissionRate float64 `json:"dayParkingCommissionRate"`
	DayParkingTariff         float64 `json:"dayParkingTariff"`
}

type Service interface {
	List(ctx context.Context) ([]Establishment, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Establishment, error)
	GetBySlug(ctx context.Context, slug string) (*Establishment, error)
	Create(ctx context.Context, est *Establishment) error
	UpdateCommissionSettings(ctx context.Context, id snowflake.ID, settings CommissionSettings) (*Establishment, error)
}

var (
	ErrNotFound              = errors.New("establishment_not_found")
	ErrSlugTaken             = errors.New("establishment_slug_taken")
	ErrInvalidCommissionRate = errors.New("invalid_commission_rate")
	ErrInvalidFixedFee       = errors.New("invalid_fixed_fee")
	ErrTariffBelowCommission = errors.New("invalid_day_parking_tariff")
	ErrInvalidName           = errors.New("invalid_establishment_name")
)
