package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/finance"
	paymentdomain "github.com/alpenstay/alpenstay/internal/payment/domain"
	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/alpenstay/alpenstay/internal/pricingoption/engine"
	"github.com/alpenstay/alpenstay/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID          *snowflake.Node
	bookings       repository.Repository[bookingdomain.Booking]
	rooms          repository.Repository[bookingdomain.Room]
	establishments establishmentdomain.Service
	pricingOptions pricingoptiondomain.Service
	processor      paymentdomain.Processor
}

type ServiceParam struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Establishments establishmentdomain.Service
	PricingOptions pricingoptiondomain.Service
	Processor      paymentdomain.Processor
}

func NewService(p ServiceParam) bookingdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("booking.service"),

		genID:          p.GenID,
		bookings:       repository.ProvideStore[bookingdomain.Booking](p.DB),
		rooms:          repository.ProvideStore[bookingdomain.Room](p.DB),
		establishments: p.Establishments,
		pricingOptions: p.PricingOptions,
		processor:      p.Processor,
	}
}

func (s *Service) CreateReservation(ctx context.Context, req bookingdomain.CreateReservationRequest) (*bookingdomain.Reservation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	est, err := s.establishments.GetBySlug(ctx, req.EstablishmentSlug)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.FindOne(ctx, &bookingdomain.Room{
		ID:              req.RoomID,
		EstablishmentID: est.ID,
	})
	if err != nil {
		return nil, err
	}
	if room == nil || !room.IsActive {
		return nil, bookingdomain.ErrRoomNotFound
	}

	catalog, err := s.pricingOptions.Catalog(ctx, est.ID)
	if err != nil {
		return nil, err
	}

	optionsTotal := engine.CalculateTotal(req.SelectedOptions, catalog)
	baseRoomCost := room.Price * float64(req.Duration)
	amount := baseRoomCost + optionsTotal + req.TouristTaxTotal

	rate := finance.RateFraction(*est, req.BookingType)
	fees, ownerAmount := finance.CalculateFees(amount, rate, est.FixedFee, finance.RoundNone)

	enriched := pricingoptiondomain.BuildEnriched(req.SelectedOptions, catalog)
	selection, err := pricingoptiondomain.MarshalEnriched(enriched)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &bookingdomain.Booking{
		ID:              s.genID.Generate(),
		Reference:       newReference(now),
		EstablishmentID: est.ID,
		RoomID:          &room.ID,

		ClientName:  strings.TrimSpace(req.ClientName),
		ClientEmail: strings.TrimSpace(req.ClientEmail),

		BookingType: req.BookingType.Normalize(),
		BookingDate: req.BookingDate,
		Duration:    req.Duration,

		RoomPrice:           room.Price,
		PricingOptionsTotal: optionsTotal,
		TouristTaxTotal:     req.TouristTaxTotal,
		Amount:              amount,

		SelectedPricingOptions: datatypes.JSON(selection),

		PlatformCommission: fees.TotalFees,
		OwnerAmount:        ownerAmount,

		PaymentStatus: bookingdomain.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	intent, err := s.processor.CreatePaymentIntent(ctx, paymentdomain.CreateIntentParams{
		Amount:            amount,
		Currency:          "chf",
		Description:       est.Name + " " + booking.Reference,
		ApplicationFee:    fees.TotalFees,
		TransferAccountID: est.StripeAccountID,
		IdempotencyKey:    uuid.NewString(),
		Metadata: map[string]string{
			"booking_reference": booking.Reference,
		},
	})
	if err != nil {
		s.log.Error("create payment intent",
			zap.String("establishment", est.Slug),
			zap.String("reference", booking.Reference),
			zap.Error(err),
		)
		return nil, err
	}
	booking.StripePaymentIntentID = &intent.ID

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("reservation created",
		zap.String("reference", booking.Reference),
		zap.String("establishment", est.Slug),
		zap.Float64("amount", booking.Amount),
	)

	return &bookingdomain.Reservation{
		Booking:      booking,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *Service) GetByReference(ctx context.Context, reference string) (*bookingdomain.Booking, error) {
	booking, err := s.bookings.FindOne(ctx, &bookingdomain.Booking{Reference: reference})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrNotFound
	}
	return booking, nil
}

func (s *Service) ApplyPaymentEvent(ctx context.Context, event *paymentdomain.PaymentEvent) error {
	if event == nil || event.PaymentIntentID == "" {
		return paymentdomain.ErrInvalidEvent
	}

	intentID := event.PaymentIntentID
	booking, err := s.bookings.FindOne(ctx, &bookingdomain.Booking{StripePaymentIntentID: &intentID})
	if err != nil {
		return err
	}
	if booking == nil {
		return bookingdomain.ErrNotFound
	}

	status := booking.PaymentStatus
	switch event.Type {
	case paymentdomain.EventTypePaymentSucceeded:
		status = bookingdomain.PaymentStatusSucceeded
	case paymentdomain.EventTypePaymentFailed:
		status = bookingdomain.PaymentStatusFailed
	default:
		return paymentdomain.ErrEventIgnored
	}

	if status == booking.PaymentStatus {
		return nil
	}

	err = s.bookings.Update(ctx, booking.ID.String(), map[string]any{
		"payment_status": status,
		"updated_at":     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.log.Info("payment status updated",
		zap.String("reference", booking.Reference),
		zap.String("status", string(status)),
	)
	return nil
}

func validateRequest(req bookingdomain.CreateReservationRequest) error {
	if strings.TrimSpace(req.EstablishmentSlug) == "" ||
		strings.TrimSpace(req.ClientName) == "" ||
		strings.TrimSpace(req.ClientEmail) == "" {
		return bookingdomain.ErrInvalidRequest
	}
	if req.RoomID == 0 || req.Duration < 1 || req.BookingDate.IsZero() {
		return bookingdomain.ErrInvalidRequest
	}
	if req.TouristTaxTotal < 0 {
		return bookingdomain.ErrInvalidRequest
	}
	switch req.BookingType.Normalize() {
	case bookingdomain.BookingTypeNight, bookingdomain.BookingTypeDay:
	default:
		return bookingdomain.ErrInvalidRequest
	}
	return nil
}

// newReference builds the guest-facing booking reference.
func newReference(now time.Time) string {
	return "BK-" + ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}
