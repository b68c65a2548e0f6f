package server

import (
	"encoding/json"
	"net/http"

	pricingoptiondomain "github.com/alpenstay/alpenstay/internal/pricingoption/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// publicPricingOptions serves the decoded catalog to the reservation form.
func (s *Server) publicPricingOptions(c *gin.Context) {
	est, err := s.establishmentSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	catalog, err := s.pricingOptionSvc.Catalog(c.Request.Context(), est.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pricingOptions": catalog})
}

func (s *Server) listPricingOptions(c *gin.Context) {
	est, err := s.authorizedEstablishment(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	options, err := s.pricingOptionSvc.ListByEstablishment(c.Request.Context(), est.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pricingOptions": options})
}

type pricingOptionRequest struct {
	Name         string                         `json:"name"`
	Type         pricingoptiondomain.OptionType `json:"type"`
	IsRequired   bool                           `json:"isRequired"`
	Values       []pricingoptiondomain.Value    `json:"values"`
	DisplayOrder int                            `json:"displayOrder"`
}

func (s *Server) createPricingOption(c *gin.Context) {
	est, err := s.authorizedEstablishment(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req pricingOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	option, err := req.toModel(est.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.pricingOptionSvc.Create(c.Request.Context(), option); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, option)
}

func (s *Server) updatePricingOption(c *gin.Context) {
	est, err := s.authorizedEstablishment(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	optionID, err := snowflake.ParseString(c.Param("optionId"))
	if err != nil {
		AbortWithError(c, newValidationError("optionId", "invalid_id", "invalid pricing option id"))
		return
	}

	var req pricingOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	option, err := req.toModel(est.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	option.ID = optionID
	if err := s.pricingOptionSvc.Update(c.Request.Context(), option); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, option)
}

func (s *Server) deletePricingOption(c *gin.Context) {
	est, err := s.authorizedEstablishment(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	optionID, err := snowflake.ParseString(c.Param("optionId"))
	if err != nil {
		AbortWithError(c, newValidationError("optionId", "invalid_id", "invalid pricing option id"))
		return
	}

	if err := s.pricingOptionSvc.Delete(c.Request.Context(), est.ID, optionID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (r pricingOptionRequest) toModel(establishmentID snowflake.ID) (*pricingoptiondomain.PricingOption, error) {
	values, err := json.Marshal(r.Values)
	if err != nil {
		return nil, newValidationError("values", "invalid_values", "invalid option values")
	}
	return &pricingoptiondomain.PricingOption{
		EstablishmentID: establishmentID,
		Name:            r.Name,
		Type:            r.Type,
		IsRequired:      r.IsRequired,
		Values:          datatypes.JSON(values),
		DisplayOrder:    r.DisplayOrder,
	}, nil
}
