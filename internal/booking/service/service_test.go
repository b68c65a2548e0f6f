package service

import (
	"context"
	"strings"
	"testing"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	paymentdomain "github.com/alpenstay/alpenstay/internal/payment/domain"
	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeEstablishments struct {
	est establishmentdomain.Establishment
}

func (f *fakeEstablishments) List(ctx context.Context) ([]establishmentdomain.Establishment, error) {
	return []establishmentdomain.Establishment{f.est}, nil
}

func (f *fakeEstablishments) GetByID(ctx context.Context, id snowflake.ID) (*establishmentdomain.Establishment, error) {
	if id != f.est.ID {
		return nil, establishmentdomain.ErrNotFound
	}
	est := f.est
	return &est, nil
}

func (f *fakeEstablishments) GetBySlug(ctx context.Context, slug string) (*establishmentdomain.Establishment, error) {
	if slug != f.est.Slug {
		return nil, establishmentdomain.ErrNotFound
	}
	est := f.est
	return &est, nil
}

func (f *fakeEstablishments) Create(ctx context.Context, est *establishmentdomain.Establishment) error {
	return nil
}

func (f *fakeEstablishments) UpdateCommissionSettings(ctx context.Context, id snowflake.ID, settings establishmentdomain.CommissionSettings) (*establishmentdomain.Establishment, error) {
	return nil, establishmentdomain.ErrNotFound
}

type fakeOptions struct {
	catalog []pricingoptiondomain.CatalogOption
}

func (f *fakeOptions) ListByEstablishment(ctx context.Context, establishmentID snowflake.ID) ([]pricingoptiondomain.PricingOption, error) {
	return nil, nil
}

func (f *fakeOptions) Catalog(ctx context.Context, establishmentID snowflake.ID) ([]pricingoptiondomain.CatalogOption, error) {
	return f.catalog, nil
}

func (f *fakeOptions) Create(ctx context.Context, option *pricingoptiondomain.PricingOption) error {
	return nil
}

func (f *fakeOptions) Update(ctx context.Context, option *pricingoptiondomain.PricingOption) error {
	return nil
}

func (f *fakeOptions) Delete(ctx context.Context, establishmentID, optionID snowflake.ID) error {
	return nil
}

type fakeProcessor struct {
	lastParams paymentdomain.CreateIntentParams
	fail       bool
}

func (f *fakeProcessor) CreatePaymentIntent(ctx context.Context, params paymentdomain.CreateIntentParams) (*paymentdomain.PaymentIntent, error) {
	if f.fail {
		return nil, paymentdomain.ErrProcessorUnavailable
	}
	f.lastParams = params
	return &paymentdomain.PaymentIntent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Status:       "requires_payment_method",
	}, nil
}

func (f *fakeProcessor) ListBalanceTransactionFees(ctx context.Context, accountID string, from, to time.Time) (float64, error) {
	return 0, nil
}

type fixture struct {
	svc       bookingdomain.Service
	db        *gorm.DB
	processor *fakeProcessor
	est       establishmentdomain.Establishment
	room      bookingdomain.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&bookingdomain.Booking{}, &bookingdomain.Room{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	est := establishmentdomain.Establishment{
		ID:              node.Generate(),
		Slug:            "camping-du-lac",
		Name:            "Camping du Lac",
		CommissionRate:  5,
		FixedFee:        2,
		StripeAccountID: "acct_test",
	}
	room := bookingdomain.Room{
		ID:              node.Generate(),
		EstablishmentID: est.ID,
		Name:            "Emplacement 12",
		Price:           100,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&room).Error)

	processor := &fakeProcessor{}
	catalog := []pricingoptiondomain.CatalogOption{{
		ID:   "10",
		Name: "Breakfast",
		Type: pricingoptiondomain.OptionTypeCheckbox,
		Values: []pricingoptiondomain.Value{
			{ID: "adult", Label: "Adult", PriceModifier: 8.5},
			{ID: "child", Label: "Child", PriceModifier: 5},
		},
	}}

	svc := NewService(ServiceParam{
		DB:             db,
		Log:            zap.NewNop(),
		GenID:          node,
		Establishments: &fakeEstablishments{est: est},
		PricingOptions: &fakeOptions{catalog: catalog},
		Processor:      processor,
	})

	return &fixture{svc: svc, db: db, processor: processor, est: est, room: room}
}

func validRequest(f *fixture) bookingdomain.CreateReservationRequest {
	return bookingdomain.CreateReservationRequest{
		EstablishmentSlug: f.est.Slug,
		RoomID:            f.room.ID,
		ClientName:        "Jean Dupont",
		ClientEmail:       "jean@example.ch",
		BookingType:       bookingdomain.BookingTypeNight,
		BookingDate:       time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
		Duration:          2,
		TouristTaxTotal:   10.5,
		SelectedOptions: map[string][]string{
			"10": {"adult", "child"},
		},
	}
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)

	reservation, err := f.svc.CreateReservation(context.Background(), validRequest(f))
	require.NoError(t, err)
	require.NotNil(t, reservation.Booking)

	booking := reservation.Booking
	assert.Equal(t, 200.0, booking.BaseRoomCost())
	assert.Equal(t, 13.5, booking.PricingOptionsTotal)
	assert.InDelta(t, 224.0, booking.Amount, 1e-9)
	assert.InDelta(t, 224.0*0.05+2, booking.PlatformCommission, 1e-9)
	assert.InDelta(t, booking.Amount-booking.PlatformCommission, booking.OwnerAmount, 1e-9)
	assert.Equal(t, bookingdomain.PaymentStatusPending, booking.PaymentStatus)
	assert.True(t, strings.HasPrefix(booking.Reference, "BK-"))
	require.NotNil(t, booking.StripePaymentIntentID)
	assert.Equal(t, "pi_test", *booking.StripePaymentIntentID)
	assert.Equal(t, "pi_test_secret", reservation.ClientSecret)

	// The stored selection is the enriched snapshot, not the submitted ids.
	selection, err := pricingoptiondomain.DecodeSelection(booking.SelectedPricingOptions)
	require.NoError(t, err)
	assert.Equal(t, pricingoptiondomain.SelectionEnriched, selection.Kind)
	require.Len(t, selection.Enriched, 2)
	assert.Equal(t, "Breakfast", selection.Enriched[0].Name)

	assert.Equal(t, "acct_test", f.processor.lastParams.TransferAccountID)
	assert.InDelta(t, booking.PlatformCommission, f.processor.lastParams.ApplicationFee, 1e-9)

	var stored bookingdomain.Booking
	require.NoError(t, f.db.First(&stored, "reference = ?", booking.Reference).Error)
	assert.InDelta(t, booking.Amount, stored.Amount, 1e-9)
}

func TestCreateReservationProcessorFailure(t *testing.T) {
	f := newFixture(t)
	f.processor.fail = true

	_, err := f.svc.CreateReservation(context.Background(), validRequest(f))
	require.Error(t, err)

	var count int64
	require.NoError(t, f.db.Model(&bookingdomain.Booking{}).Count(&count).Error)
	assert.Zero(t, count, "no booking row on processor failure")
}

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture(t)

	req := validRequest(f)
	req.Duration = 0
	_, err := f.svc.CreateReservation(context.Background(), req)
	assert.ErrorIs(t, err, bookingdomain.ErrInvalidRequest)

	req = validRequest(f)
	req.ClientEmail = "  "
	_, err = f.svc.CreateReservation(context.Background(), req)
	assert.ErrorIs(t, err, bookingdomain.ErrInvalidRequest)

	req = validRequest(f)
	req.RoomID = 42
	_, err = f.svc.CreateReservation(context.Background(), req)
	assert.ErrorIs(t, err, bookingdomain.ErrRoomNotFound)
}

func TestApplyPaymentEvent(t *testing.T) {
	f := newFixture(t)

	reservation, err := f.svc.CreateReservation(context.Background(), validRequest(f))
	require.NoError(t, err)

	err = f.svc.ApplyPaymentEvent(context.Background(), &paymentdomain.PaymentEvent{
		PaymentIntentID: "pi_test",
		Type:            paymentdomain.EventTypePaymentSucceeded,
	})
	require.NoError(t, err)

	booking, err := f.svc.GetByReference(context.Background(), reservation.Booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, bookingdomain.PaymentStatusSucceeded, booking.PaymentStatus)

	err = f.svc.ApplyPaymentEvent(context.Background(), &paymentdomain.PaymentEvent{
		PaymentIntentID: "pi_unknown",
		Type:            paymentdomain.EventTypePaymentSucceeded,
	})
	assert.ErrorIs(t, err, bookingdomain.ErrNotFound)
}
