package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	usersvc "storefront/internal/service/user"
)

// respondError maps domain failures to status codes. Anything unmapped is a
// 500 with a generic body; the original error only goes to the log.
func (h *handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrNoActiveCart), errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, pricing.ErrMissingCode), errors.Is(err, pricing.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, usersvc.ErrInvalidCredentials), errors.Is(err, usersvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, usersvc.ErrInactiveAccount):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, catalog.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"message": "catalog unavailable"})
	default:
		h.logger.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
