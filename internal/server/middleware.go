package server

import (
	"strings"
	"time"

	authdomain "github.com/alpenstay/alpenstay/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName  = "alpenstay_session"
	contextIdentityKey = "identity"
)

// AuthRequired authenticates the session cookie or bearer token and puts
// the caller identity on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

// SuperAdminRequired must run after AuthRequired.
func (s *Server) SuperAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentIdentity(c)
		if identity == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !identity.IsSuperAdmin() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// RateLimitReservations throttles the public reservation endpoint per
// client IP.
func (s *Server) RateLimitReservations() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := s.reservationLimiter.Allow(c.Request.Context(), c.ClientIP())
		if !result.Allowed {
			c.Header("Retry-After", result.RetryAfter.Round(time.Second).String())
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func currentIdentity(c *gin.Context) *authdomain.Identity {
	value, ok := c.Get(contextIdentityKey)
	if !ok {
		return nil
	}
	identity, ok := value.(*authdomain.Identity)
	if !ok {
		return nil
	}
	return identity
}

// canAccessEstablishment checks the caller's scope against one slug.
func canAccessEstablishment(identity *authdomain.Identity, slug string) bool {
	if identity == nil {
		return false
	}
	if identity.IsSuperAdmin() {
		return true
	}
	for _, allowed := range identity.EstablishmentSlugs {
		if allowed == slug {
			return true
		}
	}
	return false
}
