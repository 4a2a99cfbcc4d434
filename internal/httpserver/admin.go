package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	userrepo "storefront/internal/repository/user"
)

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *handlers) listUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, total, err := h.users.List(c.Request.Context(), userrepo.ListInput{
		Page:  page,
		Limit: limit,
		Role:  c.Query("role"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *handlers) toggleUserStatus(c *gin.Context) {
	u, err := h.users.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *handlers) changeUserRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "role required")
		return
	}
	u, err := h.users.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
