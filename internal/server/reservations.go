package server

import (
	"net/http"

	bookingdomain "github.com/alpenstay/alpenstay/internal/booking/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) createReservation(c *gin.Context) {
	var req bookingdomain.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	reservation, err := s.bookingSvc.CreateReservation(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func (s *Server) getReservation(c *gin.Context) {
	booking, err := s.bookingSvc.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
