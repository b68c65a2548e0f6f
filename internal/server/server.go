package server

import (
	"context"
	"net/http"
	"time"

	"github.com/alpenstay/alpenstay/internal/auth"
	authdomain "github.com/alpenstay/alpenstay/internal/auth/domain"
	"github.com/alpenstay/alpenstay/internal/booking"
	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	"github.com/alpenstay/alpenstay/internal/commissionaudit"
	commissionauditdomain "github.com/alpenstay/alpenstay/internal/commissionaudit/domain"
	"github.com/alpenstay/alpenstay/internal/config"
	"github.com/alpenstay/alpenstay/internal/establishment"
	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/observability"
	obslogger "github.com/alpenstay/alpenstay/internal/observability/logger"
	obsmetrics "github.com/alpenstay/alpenstay/internal/observability/metrics"
	"github.com/alpenstay/alpenstay/internal/payment"
	paymentdomain "github.com/alpenstay/alpenstay/internal/payment/domain"
	"github.com/alpenstay/alpenstay/internal/paymentreport"
	reportdomain "github.com/alpenstay/alpenstay/internal/paymentreport/domain"
	"github.com/alpenstay/alpenstay/internal/pricingoption"
	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/alpenstay/alpenstay/internal/providers/excel"
	"github.com/alpenstay/alpenstay/internal/providers/pdf"
	"github.com/alpenstay/alpenstay/internal/ratelimit"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	observability.Module,
	auth.Module,
	establishment.Module,
	pricingoption.Module,
	booking.Module,
	commissionaudit.Module,
	paymentreport.Module,
	payment.Module,
	ratelimit.Module,
	fx.Provide(
		registerGin,
		pdf.NewRenderer,
		excel.NewRenderer,
	),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	genID  *snowflake.Node

	authsvc            authdomain.Service
	bookingSvc         bookingdomain.Service
	establishmentSvc   establishmentdomain.Service
	pricingOptionSvc   pricingoptiondomain.Service
	commissionAuditSvc commissionauditdomain.Service
	reportSvc          reportdomain.Service
	policy             *config.FinancePolicyHolder
	webhook            paymentdomain.WebhookHandler
	reservationLimiter *ratelimit.ReservationLimiter
	pdfRenderer        *pdf.Renderer
	excelRenderer      *excel.Renderer
}

type ServerParams struct {
	fx.In

	Engine *gin.Engine
	Cfg    config.Config
	Log    *zap.Logger
	GenID  *snowflake.Node

	AuthSvc            authdomain.Service
	BookingSvc         bookingdomain.Service
	EstablishmentSvc   establishmentdomain.Service
	PricingOptionSvc   pricingoptiondomain.Service
	CommissionAuditSvc commissionauditdomain.Service
	ReportSvc          reportdomain.Service
	Policy             *config.FinancePolicyHolder
	Webhook            paymentdomain.WebhookHandler
	ReservationLimiter *ratelimit.ReservationLimiter
	PDFRenderer        *pdf.Renderer
	ExcelRenderer      *excel.Renderer
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine: p.Engine,
		cfg:    p.Cfg,
		log:    p.Log.Named("http.server"),
		genID:  p.GenID,

		authsvc:            p.AuthSvc,
		bookingSvc:         p.BookingSvc,
		establishmentSvc:   p.EstablishmentSvc,
		pricingOptionSvc:   p.PricingOptionSvc,
		commissionAuditSvc: p.CommissionAuditSvc,
		reportSvc:          p.ReportSvc,
		policy:             p.Policy,
		webhook:            p.Webhook,
		reservationLimiter: p.ReservationLimiter,
		pdfRenderer:        p.PDFRenderer,
		excelRenderer:      p.ExcelRenderer,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.POST("/reservations", s.RateLimitReservations(), s.createReservation)
	api.GET("/reservations/:reference", s.getReservation)
	api.GET("/establishments/:slug/pricing-options", s.publicPricingOptions)

	s.engine.POST("/webhooks/stripe", s.handleStripeWebhook)

	admin := s.engine.Group("/admin", s.AuthRequired())
	admin.GET("/payment-report", s.getPaymentReport)
	admin.GET("/payment-report/invoice.pdf", s.getPaymentReportInvoice)
	admin.GET("/payment-report/export.xlsx", s.getPaymentReportExport)
	admin.GET("/commission-verification", s.SuperAdminRequired(), s.getCommissionVerification)

	admin.GET("/establishments", s.listEstablishments)
	admin.POST("/establishments", s.SuperAdminRequired(), s.createEstablishment)
	admin.PUT("/establishments/:id/commission-settings", s.updateCommissionSettings)

	admin.GET("/establishments/:id/pricing-options", s.listPricingOptions)
	admin.POST("/establishments/:id/pricing-options", s.createPricingOption)
	admin.PUT("/establishments/:id/pricing-options/:optionId", s.updatePricingOption)
	admin.DELETE("/establishments/:id/pricing-options/:optionId", s.deletePricingOption)
}
