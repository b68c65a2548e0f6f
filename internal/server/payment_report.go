package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	reportdomain "github.com/alpenstay/alpenstay/internal/paymentreport/domain"
	"github.com/alpenstay/alpenstay/internal/providers/pdf"
	"github.com/gin-gonic/gin"
)

func (s *Server) getPaymentReport(c *gin.Context) {
	filter, err := s.reportFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reportSvc.Generate(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) getPaymentReportInvoice(c *gin.Context) {
	filter, err := s.reportFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if filter.EstablishmentSlug == "" {
		AbortWithError(c, newValidationError("establishment", "establishment_required", "establishment slug is required for invoices"))
		return
	}

	// Invoices use the invoice VAT rate, not the report rate.
	filter.IncludeAccountFees = false
	filter.VATRate = s.policy.Current().InvoiceVATRate

	report, err := s.reportSvc.Generate(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(report.ByEstablishment) == 0 {
		AbortWithError(c, ErrNotFound)
		return
	}

	now := time.Now().UTC()
	data := pdf.BuildInvoice(
		report,
		report.ByEstablishment[0],
		fmt.Sprintf("INV-%s-%s", now.Format("200601"), filter.EstablishmentSlug),
		now.Format("02.01.2006"),
		reportPeriodLabel(filter),
		filter.VATRate,
	)

	reader, err := s.pdfRenderer.RenderInvoice(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (s *Server) getPaymentReportExport(c *gin.Context) {
	filter, err := s.reportFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reportSvc.Generate(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.excelRenderer.RenderReport(c.Request.Context(), report)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="payment-report.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (s *Server) getCommissionVerification(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be an integer"))
		return
	}

	result, err := s.commissionAuditSvc.Verify(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// reportFilter parses the report query parameters and applies the
// caller's establishment scope.
func (s *Server) reportFilter(c *gin.Context) (reportdomain.Filter, error) {
	slug := c.Query("establishmentSlug")
	if slug == "" {
		// Older dashboard builds send the short name.
		slug = c.Query("establishment")
	}
	filter := reportdomain.Filter{
		EstablishmentSlug: slug,
	}

	startDate, err := parseOptionalTime(c.Query("startDate"), false)
	if err != nil {
		return filter, newValidationError("startDate", "invalid_date", "startDate must be an ISO date")
	}
	endDate, err := parseOptionalTime(c.Query("endDate"), true)
	if err != nil {
		return filter, newValidationError("endDate", "invalid_date", "endDate must be an ISO date")
	}
	includeAccountFees, err := parseOptionalBool(c.Query("includeAccountFees"))
	if err != nil {
		return filter, newValidationError("includeAccountFees", "invalid_bool", "includeAccountFees must be a boolean")
	}

	filter.StartDate = startDate
	filter.EndDate = endDate
	filter.IncludeAccountFees = includeAccountFees

	identity := currentIdentity(c)
	if identity == nil {
		return filter, ErrUnauthorized
	}
	if !identity.IsSuperAdmin() {
		slugs := identity.EstablishmentSlugs
		if slugs == nil {
			slugs = []string{}
		}
		filter.AuthorizedSlugs = slugs
	}

	return filter, nil
}

func reportPeriodLabel(filter reportdomain.Filter) string {
	switch {
	case filter.StartDate != nil && filter.EndDate != nil:
		return filter.StartDate.Format("02.01.2006") + " - " + filter.EndDate.Format("02.01.2006")
	case filter.StartDate != nil:
		return "depuis le " + filter.StartDate.Format("02.01.2006")
	case filter.EndDate != nil:
		return "jusqu'au " + filter.EndDate.Format("02.01.2006")
	default:
		return "toutes les réservations"
	}
}
