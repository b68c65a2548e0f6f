package service

import (
	"context"
	"strings"
	"time"

	"github.com/alpenstay/alpenstay/internal/config"
	"github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/finance"
	"github.com/alpenstay/alpenstay/pkg/db"
	"github.com/alpenstay/alpenstay/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID  *snowflake.Node
	repo   repository.Repository[domain.Establishment]
	policy *config.FinancePolicyHolder
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Policy *config.FinancePolicyHolder
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("establishment.service"),

		genID:  p.GenID,
		repo:   repository.ProvideStore[domain.Establishment](p.DB),
		policy: p.Policy,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Establishment, error) {
	rows, err := s.repo.Find(ctx, &domain.Establishment{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Establishment, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Establishment, error) {
	row, err := s.repo.FindOne(ctx, &domain.Establishment{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*domain.Establishment, error) {
	row, err := s.repo.FindOne(ctx, &domain.Establishment{Slug: strings.TrimSpace(slugValue)})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

func (s *Service) Create(ctx context.Context, est *domain.Establishment) error {
	if strings.TrimSpace(est.Name) == "" {
		return domain.ErrInvalidName
	}

	policy := s.policy.Current()
	if est.ID == 0 {
		est.ID = s.genID.Generate()
	}
	if est.Slug == "" {
		est.Slug = slug.Make(est.Name)
	}
	if est.CommissionRate == 0 {
		est.CommissionRate = policy.DefaultCommissionRate
	}
	if est.FixedFee == 0 {
		est.FixedFee = policy.DefaultFixedFee
	}
	if est.DayParkingCommissionRate == 0 {
		est.DayParkingCommissionRate = policy.DefaultDayParkingCommissionRate
	}

	settings := domain.CommissionSettings{
		CommissionRate:           est.CommissionRate,
		FixedFee:                 est.FixedFee,
		DayParkingCommissionRate: est.DayParkingCommissionRate,
		DayParkingTariff:         est.DayParkingTariff,
	}
	if err := ValidateCommissionSettings(settings); err != nil {
		return err
	}

	now := time.Now().UTC()
	est.CreatedAt = now
	est.UpdatedAt = now
	if err := s.repo.Create(ctx, est); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *Service) UpdateCommissionSettings(ctx context.Context, id snowflake.ID, settings domain.CommissionSettings) (*domain.Establishment, error) {
	if err := ValidateCommissionSettings(settings); err != nil {
		return nil, err
	}

	est, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	est.CommissionRate = settings.CommissionRate
	est.FixedFee = settings.FixedFee
	est.DayParkingCommissionRate = settings.DayParkingCommissionRate
	est.DayParkingTariff = settings.DayParkingTariff
	est.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(est).Error; err != nil {
		return nil, err
	}

	s.log.Info("commission settings updated",
		zap.String("establishment_id", id.String()),
		zap.Float64("commission_rate", settings.CommissionRate),
		zap.Float64("fixed_fee", settings.FixedFee),
	)
	return est, nil
}

// ValidateCommissionSettings rejects configurations where the platform
// fees could never leave a positive owner payout. The fee calculator
// itself does not clamp; this is the configuration-time gate.
func ValidateCommissionSettings(settings domain.CommissionSettings) error {
	if settings.CommissionRate < 0 || settings.CommissionRate >= 100 {
		return domain.ErrInvalidCommissionRate
	}
	if settings.DayParkingCommissionRate < 0 || settings.DayParkingCommissionRate > 100 {
		return domain.ErrInvalidCommissionRate
	}
	if settings.FixedFee < 0 {
		return domain.ErrInvalidFixedFee
	}
	if settings.DayParkingTariff > 0 {
		if err := ValidateDayParkingTariff(settings.DayParkingTariff, settings.DayParkingCommissionRate); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDayParkingTariff checks that the configured daily tariff
// exceeds the commission it would generate. This path rounds the
// commission to whole francs before comparing.
func ValidateDayParkingTariff(tariff, ratePercent float64) error {
	if tariff <= 0 {
		return domain.ErrTariffBelowCommission
	}
	fees, _ := finance.CalculateFees(tariff, ratePercent/100, 0, finance.RoundNearestFranc)
	if fees.Commission >= tariff {
		return domain.ErrTariffBelowCommission
	}
	return nil
}
