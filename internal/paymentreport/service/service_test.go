package service

import (
	"context"
	"testing"
	"time"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	"github.com/alpenstay/alpenstay/internal/config"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	paymentdomain "github.com/alpenstay/alpenstay/internal/payment/domain"
	"github.com/alpenstay/alpenstay/internal/paymentreport/domain"
	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeEstablishments struct {
	list []establishmentdomain.Establishment
}

func (f *fakeEstablishments) List(ctx context.Context) ([]establishmentdomain.Establishment, error) {
	return f.list, nil
}

func (f *fakeEstablishments) GetByID(ctx context.Context, id snowflake.ID) (*establishmentdomain.Establishment, error) {
	for _, est := range f.list {
		if est.ID == id {
			e := est
			return &e, nil
		}
	}
	return nil, establishmentdomain.ErrNotFound
}

func (f *fakeEstablishments) GetBySlug(ctx context.Context, slug string) (*establishmentdomain.Establishment, error) {
	for _, est := range f.list {
		if est.Slug == slug {
			e := est
			return &e, nil
		}
	}
	return nil, establishmentdomain.ErrNotFound
}

func (f *fakeEstablishments) Create(ctx context.Context, est *establishmentdomain.Establishment) error {
	return nil
}

func (f *fakeEstablishments) UpdateCommissionSettings(ctx context.Context, id snowflake.ID, settings establishmentdomain.CommissionSettings) (*establishmentdomain.Establishment, error) {
	return nil, establishmentdomain.ErrNotFound
}

type fakeOptions struct{}

func (fakeOptions) ListByEstablishment(ctx context.Context, establishmentID snowflake.ID) ([]pricingoptiondomain.PricingOption, error) {
	return nil, nil
}

func (fakeOptions) Catalog(ctx context.Context, establishmentID snowflake.ID) ([]pricingoptiondomain.CatalogOption, error) {
	return nil, nil
}

func (fakeOptions) Create(ctx context.Context, option *pricingoptiondomain.PricingOption) error {
	return nil
}

func (fakeOptions) Update(ctx context.Context, option *pricingoptiondomain.PricingOption) error {
	return nil
}

func (fakeOptions) Delete(ctx context.Context, establishmentID, optionID snowflake.ID) error {
	return nil
}

type fakeProcessor struct {
	feesByAccount map[string]float64
	failAccount   string
}

func (f *fakeProcessor) CreatePaymentIntent(ctx context.Context, params paymentdomain.CreateIntentParams) (*paymentdomain.PaymentIntent, error) {
	return nil, paymentdomain.ErrNotConfigured
}

func (f *fakeProcessor) ListBalanceTransactionFees(ctx context.Context, accountID string, from, to time.Time) (float64, error) {
	if accountID == f.failAccount {
		return 0, paymentdomain.ErrProcessorUnavailable
	}
	return f.feesByAccount[accountID], nil
}

type fixture struct {
	svc  domain.Service
	db   *gorm.DB
	estA establishmentdomain.Establishment
	estB establishmentdomain.Establishment
	proc *fakeProcessor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&bookingdomain.Booking{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	estA := establishmentdomain.Establishment{
		ID: node.Generate(), Slug: "hotel-a", Name: "Hotel A",
		CommissionRate: 5, FixedFee: 2, StripeAccountID: "acct_a",
	}
	estB := establishmentdomain.Establishment{
		ID: node.Generate(), Slug: "camping-b", Name: "Camping B",
		CommissionRate: 8, FixedFee: 1, StripeAccountID: "acct_b",
	}

	proc := &fakeProcessor{feesByAccount: map[string]float64{"acct_a": 6.4, "acct_b": 2.1}}
	svc := NewService(ServiceParam{
		DB:             db,
		Log:            zap.NewNop(),
		Establishments: &fakeEstablishments{list: []establishmentdomain.Establishment{estA, estB}},
		PricingOptions: fakeOptions{},
		Processor:      proc,
		Policy:         config.NewStaticFinancePolicyHolder(config.DefaultFinancePolicy()),
	})

	f := &fixture{svc: svc, db: db, estA: estA, estB: estB, proc: proc}

	seed := []bookingdomain.Booking{
		f.booking(node, estA, 221, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC), bookingdomain.PaymentStatusSucceeded),
		f.booking(node, estA, 100, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), bookingdomain.PaymentStatusSucceeded),
		f.booking(node, estA, 999, time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC), bookingdomain.PaymentStatusPending),
		f.booking(node, estB, 150, time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), bookingdomain.PaymentStatusSucceeded),
		f.booking(node, estB, 60, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), bookingdomain.PaymentStatusSucceeded),
	}
	for _, b := range seed {
		require.NoError(t, db.Create(&b).Error)
	}
	return f
}

func (f *fixture) booking(node *snowflake.Node, est establishmentdomain.Establishment, amount float64, date time.Time, status bookingdomain.PaymentStatus) bookingdomain.Booking {
	return bookingdomain.Booking{
		ID:              node.Generate(),
		Reference:       "BK-" + node.Generate().String(),
		EstablishmentID: est.ID,
		ClientName:      "Guest",
		ClientEmail:     "guest@example.ch",
		BookingType:     bookingdomain.BookingTypeNight,
		BookingDate:     date,
		Duration:        1,
		RoomPrice:       amount,
		Amount:          amount,
		PaymentStatus:   status,
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestGenerateSucceededOnly(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.Generate(context.Background(), domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Summary.BookingCount)
	assert.InDelta(t, 221+100+150+60, report.Summary.TotalAmount, 1e-9)
	assert.InDelta(t, 0.038, report.VATRate, 1e-12)
	assert.Nil(t, report.Summary.AccountFees)
}

func TestGenerateDateRangeInclusive(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.Generate(context.Background(), domain.Filter{
		StartDate: datePtr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:   datePtr(time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC)),
	})
	require.NoError(t, err)

	// Both May bookings make the cut, including the one on the end date.
	assert.Equal(t, 2, report.Summary.BookingCount)
	assert.InDelta(t, 321, report.Summary.TotalAmount, 1e-9)
}

func TestGenerateSlugFilterAndAuthorization(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.Generate(context.Background(), domain.Filter{
		EstablishmentSlug: "camping-b",
		AuthorizedSlugs:   []string{"camping-b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Summary.BookingCount)
	require.Len(t, report.ByEstablishment, 1)
	assert.Equal(t, "camping-b", report.ByEstablishment[0].Slug)

	_, err = f.svc.Generate(context.Background(), domain.Filter{
		EstablishmentSlug: "hotel-a",
		AuthorizedSlugs:   []string{"camping-b"},
	})
	assert.ErrorIs(t, err, domain.ErrEstablishmentNotAllowed)
}

func TestGenerateScopedOwnerWithoutSlug(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.Generate(context.Background(), domain.Filter{
		AuthorizedSlugs: []string{"hotel-a"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Summary.BookingCount)
	require.Len(t, report.ByEstablishment, 1)
	assert.Equal(t, "hotel-a", report.ByEstablishment[0].Slug)
}

func TestGenerateAccountFees(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.Generate(context.Background(), domain.Filter{IncludeAccountFees: true})
	require.NoError(t, err)
	require.NotNil(t, report.Summary.AccountFees)
	assert.InDelta(t, 8.5, report.Summary.AccountFees.Amount, 1e-9)
	assert.False(t, report.Summary.AccountFees.Degraded)

	// One failing ledger degrades the field but keeps the report whole.
	f.proc.failAccount = "acct_b"
	report, err = f.svc.Generate(context.Background(), domain.Filter{IncludeAccountFees: true})
	require.NoError(t, err)
	require.NotNil(t, report.Summary.AccountFees)
	assert.True(t, report.Summary.AccountFees.Degraded)
	assert.InDelta(t, 6.4, report.Summary.AccountFees.Amount, 1e-9)
	assert.Equal(t, 4, report.Summary.BookingCount)
}

func TestGenerateInvalidDateRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), domain.Filter{
		StartDate: datePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:   datePtr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
