package service

import (
	"context"
	"math"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	"github.com/alpenstay/alpenstay/internal/commissionaudit/domain"
	"github.com/alpenstay/alpenstay/internal/config"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/finance"
	"github.com/alpenstay/alpenstay/pkg/db/option"
	"github.com/alpenstay/alpenstay/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultLimit matches the admin dashboard's report scope.
const defaultLimit = 10

type Service struct {
	log *zap.Logger

	bookings       repository.Repository[bookingdomain.Booking]
	establishments establishmentdomain.Service
	policy         *config.FinancePolicyHolder
}

type ServiceParam struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Establishments establishmentdomain.Service
	Policy         *config.FinancePolicyHolder
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log: p.Log.Named("commissionaudit.service"),

		bookings:       repository.ProvideStore[bookingdomain.Booking](p.DB),
		establishments: p.Establishments,
		policy:         p.Policy,
	}
}

func (s *Service) Verify(ctx context.Context, limit int) (*domain.Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	tolerance := s.policy.Current().CommissionTolerance

	bookings, err := s.bookings.Find(ctx,
		&bookingdomain.Booking{PaymentStatus: bookingdomain.PaymentStatusSucceeded},
		option.WithOrder("booking_date DESC, id DESC"),
		option.WithLimit(limit),
	)
	if err != nil {
		return nil, err
	}

	establishments := map[snowflake.ID]*establishmentdomain.Establishment{}
	checks := make([]domain.BookingCheck, 0, len(bookings))
	summary := domain.Summary{}

	for _, booking := range bookings {
		est, ok := establishments[booking.EstablishmentID]
		if !ok {
			est, err = s.establishments.GetByID(ctx, booking.EstablishmentID)
			if err != nil {
				return nil, err
			}
			establishments[booking.EstablishmentID] = est
		}

		check := verifyBooking(*booking, *est, tolerance)
		checks = append(checks, check)

		summary.TotalBookings++
		summary.TotalCommissions += check.ActualCommission
		if check.IsCommissionCorrect {
			summary.CommissionsCorrect++
		} else {
			summary.CommissionsIncorrect++
			s.log.Warn("commission mismatch",
				zap.String("reference", check.Reference),
				zap.Float64("actual", check.ActualCommission),
				zap.Float64("expected", check.ExpectedCommission),
			)
		}
		if check.PaymentPending {
			summary.PendingPayments++
		}
	}

	if summary.TotalBookings > 0 {
		summary.Accuracy = float64(summary.CommissionsCorrect) / float64(summary.TotalBookings) * 100
	}

	return &domain.Result{Summary: summary, Bookings: checks}, nil
}

// verifyBooking evaluates one booking against the current establishment
// configuration. Day-parking bookings are checked against the day rate.
func verifyBooking(
	booking bookingdomain.Booking,
	est establishmentdomain.Establishment,
	tolerance float64,
) domain.BookingCheck {
	rate := finance.RateFraction(est, booking.BookingType) * 100
	fixedFee := est.FixedFee

	expected := finance.RoundCents(booking.Amount*rate/100) + fixedFee
	difference := booking.PlatformCommission - expected

	return domain.BookingCheck{
		BookingID:         booking.ID,
		Reference:         booking.Reference,
		EstablishmentID:   est.ID,
		EstablishmentName: est.Name,
		BookingType:       booking.BookingType.Normalize(),
		BookingDate:       booking.BookingDate,

		Amount:             booking.Amount,
		CommissionRate:     rate,
		FixedFee:           fixedFee,
		ActualCommission:   booking.PlatformCommission,
		ExpectedCommission: expected,

		CommissionDifference: difference,
		IsCommissionCorrect:  math.Abs(difference) < tolerance,

		PaymentPending: booking.StripePaymentIntentID == nil || *booking.StripePaymentIntentID == "",
	}
}
