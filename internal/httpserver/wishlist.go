package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	wishlistsvc "storefront/internal/service/wishlist"
)

func (h *handlers) getWishlist(c *gin.Context) {
	entries, err := h.wishlists.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": entries})
}

func (h *handlers) addWishlist(c *gin.Context) {
	var req wishlistsvc.AddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	entries, err := h.wishlists.Add(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": entries})
}

// removeWishlist accepts the internal entry id as well as the upstream
// product id in the path.
func (h *handlers) removeWishlist(c *gin.Context) {
	entries, err := h.wishlists.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": entries})
}
