package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersvc "storefront/internal/service/user"
)

// getProfile returns the profile together with the wishlist and active cart
// so the account page renders from one request.
func (h *handlers) getProfile(c *gin.Context) {
	u := currentUser(c)
	ctx := c.Request.Context()

	profile, err := h.users.Profile(ctx, u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	wishlist, err := h.wishlists.Get(ctx, u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	cart, err := h.carts.Get(ctx, u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     profile,
		"wishlist": wishlist,
		"cart":     cart,
	})
}

func (h *handlers) updateProfile(c *gin.Context) {
	u := currentUser(c)
	var req usersvc.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	updated, err := h.users.UpdateProfile(c.Request.Context(), u.ID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}
