package service

import (
	"context"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	"github.com/alpenstay/alpenstay/internal/config"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/finance"
	paymentdomain "github.com/alpenstay/alpenstay/internal/payment/domain"
	"github.com/alpenstay/alpenstay/internal/paymentreport/domain"
	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/alpenstay/alpenstay/pkg/db/option"
	"github.com/alpenstay/alpenstay/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log *zap.Logger

	bookings       repository.Repository[bookingdomain.Booking]
	establishments establishmentdomain.Service
	pricingOptions pricingoptiondomain.Service
	processor      paymentdomain.Processor
	policy         *config.FinancePolicyHolder
}

type ServiceParam struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Establishments establishmentdomain.Service
	PricingOptions pricingoptiondomain.Service
	Processor      paymentdomain.Processor
	Policy         *config.FinancePolicyHolder
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log: p.Log.Named("paymentreport.service"),

		bookings:       repository.ProvideStore[bookingdomain.Booking](p.DB),
		establishments: p.Establishments,
		pricingOptions: p.PricingOptions,
		processor:      p.Processor,
		policy:         p.Policy,
	}
}

func (s *Service) Generate(ctx context.Context, filter domain.Filter) (*domain.Report, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	scope, err := s.resolveScope(ctx, filter)
	if err != nil {
		return nil, err
	}

	vatRate := s.policy.Current().ReportVATRate
	if filter.VATRate > 0 {
		vatRate = filter.VATRate
	}

	records, err := s.assembleRecords(ctx, filter, scope, vatRate)
	if err != nil {
		return nil, err
	}

	report := domain.Aggregate(records, scope)
	report.VATRate = vatRate

	if filter.IncludeAccountFees {
		fees := s.fetchAccountFees(ctx, filter, scope)
		report.Summary.AccountFees = &fees
	}

	return &report, nil
}

// resolveScope restricts the report to establishments the caller may see.
// A requested slug outside the authorized set fails the whole request; it
// never degrades to an empty report.
func (s *Service) resolveScope(ctx context.Context, filter domain.Filter) (map[snowflake.ID]establishmentdomain.Establishment, error) {
	all, err := s.establishments.List(ctx)
	if err != nil {
		return nil, err
	}

	var authorized map[string]bool
	if filter.AuthorizedSlugs != nil {
		authorized = make(map[string]bool, len(filter.AuthorizedSlugs))
		for _, slug := range filter.AuthorizedSlugs {
			authorized[slug] = true
		}
	}

	if filter.EstablishmentSlug != "" {
		if authorized != nil && !authorized[filter.EstablishmentSlug] {
			return nil, domain.ErrEstablishmentNotAllowed
		}
		for _, est := range all {
			if est.Slug == filter.EstablishmentSlug {
				return map[snowflake.ID]establishmentdomain.Establishment{est.ID: est}, nil
			}
		}
		return nil, establishmentdomain.ErrNotFound
	}

	scope := make(map[snowflake.ID]establishmentdomain.Establishment, len(all))
	for _, est := range all {
		if authorized != nil && !authorized[est.Slug] {
			continue
		}
		scope[est.ID] = est
	}
	return scope, nil
}

func (s *Service) assembleRecords(
	ctx context.Context,
	filter domain.Filter,
	scope map[snowflake.ID]establishmentdomain.Establishment,
	vatRate float64,
) ([]finance.Record, error) {
	if len(scope) == 0 {
		return []finance.Record{}, nil
	}

	ids := make([]snowflake.ID, 0, len(scope))
	for id := range scope {
		ids = append(ids, id)
	}

	opts := []option.QueryOption{
		option.WithWhere("establishment_id IN ?", ids),
		option.WithOrder("booking_date ASC, id ASC"),
	}
	if filter.StartDate != nil {
		opts = append(opts, option.WithWhere("booking_date >= ?", *filter.StartDate))
	}
	if filter.EndDate != nil {
		opts = append(opts, option.WithWhere("booking_date <= ?", *filter.EndDate))
	}

	bookings, err := s.bookings.Find(ctx,
		&bookingdomain.Booking{PaymentStatus: bookingdomain.PaymentStatusSucceeded},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	catalogs := map[snowflake.ID][]pricingoptiondomain.CatalogOption{}
	records := make([]finance.Record, 0, len(bookings))

	for _, booking := range bookings {
		est, ok := scope[booking.EstablishmentID]
		if !ok {
			continue
		}

		catalog, ok := catalogs[est.ID]
		if !ok {
			catalog, err = s.pricingOptions.Catalog(ctx, est.ID)
			if err != nil {
				return nil, err
			}
			catalogs[est.ID] = catalog
		}

		records = append(records, finance.Assemble(*booking, est, catalog, vatRate))
	}

	return records, nil
}

// fetchAccountFees sums processor fees over the report window. A ledger
// failure degrades the field instead of failing the report; the degraded
// flag keeps "unavailable" distinguishable from "zero fees charged".
func (s *Service) fetchAccountFees(
	ctx context.Context,
	filter domain.Filter,
	scope map[snowflake.ID]establishmentdomain.Establishment,
) domain.AccountFees {
	from := time.Unix(0, 0).UTC()
	if filter.StartDate != nil {
		from = *filter.StartDate
	}
	to := time.Now().UTC()
	if filter.EndDate != nil {
		to = *filter.EndDate
	}

	fees := domain.AccountFees{}
	for _, est := range scope {
		if est.StripeAccountID == "" {
			continue
		}
		amount, err := s.processor.ListBalanceTransactionFees(ctx, est.StripeAccountID, from, to)
		if err != nil {
			s.log.Warn("account fee lookup failed",
				zap.String("establishment", est.Slug),
				zap.Error(err),
			)
			fees.Degraded = true
			continue
		}
		fees.Amount += amount
	}
	return fees
}
