package service

import (
	"context"
	"strings"
	"time"

	"github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/alpenstay/alpenstay/pkg/db/option"
	"github.com/alpenstay/alpenstay/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	repo  repository.Repository[domain.PricingOption]
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("pricingoption.service"),

		genID: p.GenID,
		repo:  repository.ProvideStore[domain.PricingOption](p.DB),
	}
}

func (s *Service) ListByEstablishment(ctx context.Context, establishmentID snowflake.ID) ([]domain.PricingOption, error) {
	rows, err := s.repo.Find(ctx,
		&domain.PricingOption{EstablishmentID: establishmentID},
		option.WithOrder("display_order ASC, id ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PricingOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) Catalog(ctx context.Context, establishmentID snowflake.ID) ([]domain.CatalogOption, error) {
	rows, err := s.ListByEstablishment(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	return domain.CatalogFromModels(rows), nil
}

func (s *Service) Create(ctx context.Context, opt *domain.PricingOption) error {
	if err := validateOption(opt); err != nil {
		return err
	}
	if opt.ID == 0 {
		opt.ID = s.genID.Generate()
	}
	now := time.Now().UTC()
	opt.CreatedAt = now
	opt.UpdatedAt = now
	return s.repo.Create(ctx, opt)
}

func (s *Service) Update(ctx context.Context, opt *domain.PricingOption) error {
	if err := validateOption(opt); err != nil {
		return err
	}

	existing, err := s.repo.FindOne(ctx, &domain.PricingOption{
		ID:              opt.ID,
		EstablishmentID: opt.EstablishmentID,
	})
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	opt.CreatedAt = existing.CreatedAt
	opt.UpdatedAt = time.Now().UTC()
	return s.db.WithContext(ctx).Save(opt).Error
}

func (s *Service) Delete(ctx context.Context, establishmentID, optionID snowflake.ID) error {
	existing, err := s.repo.FindOne(ctx, &domain.PricingOption{
		ID:              optionID,
		EstablishmentID: establishmentID,
	})
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, optionID.String())
}

func validateOption(opt *domain.PricingOption) error {
	if opt == nil || strings.TrimSpace(opt.Name) == "" {
		return domain.ErrInvalidName
	}
	switch opt.Type {
	case domain.OptionTypeSelect, domain.OptionTypeRadio, domain.OptionTypeCheckbox:
	default:
		return domain.ErrInvalidType
	}
	if _, err := opt.DecodeValues(); err != nil {
		return domain.ErrInvalidValues
	}
	return nil
}
