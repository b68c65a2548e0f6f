package server

import (
	"net/http"

	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) listEstablishments(c *gin.Context) {
	identity := currentIdentity(c)
	if identity == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	establishments, err := s.establishmentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if !identity.IsSuperAdmin() {
		scoped := make([]establishmentdomain.Establishment, 0, len(establishments))
		for _, est := range establishments {
			if canAccessEstablishment(identity, est.Slug) {
				scoped = append(scoped, est)
			}
		}
		establishments = scoped
	}

	c.JSON(http.StatusOK, gin.H{"establishments": establishments})
}

type createEstablishmentRequest struct {
	Name                     string  `json:"name"`
	CommissionRate           float64 `json:"commissionRate"`
	FixedFee                 float64 `json:"fixedFee"`
	DayParkingCommissionRate float64 `json:"dayParkingCommissionRate"`
	DayParkingTariff         float64 `json:"dayParkingTariff"`
	BillingCompanyName       string  `json:"billingCompanyName"`
	BillingAddress           string  `json:"billingAddress"`
	BillingPostalCode        string  `json:"billingPostalCode"`
	BillingCity              string  `json:"billingCity"`
	BillingCountry           string  `json:"billingCountry"`
	VATNumber                string  `json:"vatNumber"`
	StripeAccountID          string  `json:"stripeAccountId"`
}

func (s *Server) createEstablishment(c *gin.Context) {
	var req createEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	est := &establishmentdomain.Establishment{
		Name:                     req.Name,
		CommissionRate:           req.CommissionRate,
		FixedFee:                 req.FixedFee,
		DayParkingCommissionRate: req.DayParkingCommissionRate,
		DayParkingTariff:         req.DayParkingTariff,
		BillingCompanyName:       req.BillingCompanyName,
		BillingAddress:           req.BillingAddress,
		BillingPostalCode:        req.BillingPostalCode,
		BillingCity:              req.BillingCity,
		BillingCountry:           req.BillingCountry,
		VATNumber:                req.VATNumber,
		StripeAccountID:          req.StripeAccountID,
	}
	if err := s.establishmentSvc.Create(c.Request.Context(), est); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, est)
}

func (s *Server) updateCommissionSettings(c *gin.Context) {
	est, err := s.authorizedEstablishment(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var settings establishmentdomain.CommissionSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	updated, err := s.establishmentSvc.UpdateCommissionSettings(c.Request.Context(), est.ID, settings)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// authorizedEstablishment resolves the :id route param and enforces the
// caller's establishment scope.
func (s *Server) authorizedEstablishment(c *gin.Context) (*establishmentdomain.Establishment, error) {
	identity := currentIdentity(c)
	if identity == nil {
		return nil, ErrUnauthorized
	}

	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		return nil, newValidationError("id", "invalid_id", "invalid establishment id")
	}

	est, err := s.establishmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if !canAccessEstablishment(identity, est.Slug) {
		return nil, ErrForbidden
	}
	return est, nil
}
