package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

const userCtxKey = "currentUser"

// authRequired resolves the bearer token to an active user and stores it on
// the request context. Missing or bad tokens abort with 401.
func (h *handlers) authRequired(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
		return
	}
	u, err := h.users.LookupByToken(c.Request.Context(), token)
	if err != nil {
		h.respondError(c, err)
		c.Abort()
		return
	}
	c.Set(userCtxKey, u)
	c.Next()
}

// adminOnly must run after authRequired.
func (h *handlers) adminOnly(c *gin.Context) {
	u := currentUser(c)
	if u == nil || u.Role != domain.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
