package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartsvc "storefront/internal/service/cart"
)

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req cartsvc.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// updateCartItem sets an absolute quantity. Zero or below removes the line.
func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cart, err := h.carts.SetQuantity(c.Request.Context(), currentUser(c).ID, c.Param("itemId"), req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cart, err := h.carts.RemoveItem(c.Request.Context(), currentUser(c).ID, c.Param("itemId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h *handlers) clearCart(c *gin.Context) {
	cart, err := h.carts.Clear(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h *handlers) checkout(c *gin.Context) {
	result, err := h.carts.Checkout(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) cartHistory(c *gin.Context) {
	orders, err := h.carts.History(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// cartSummary prices the active cart; ?code= applies a discount code.
func (h *handlers) cartSummary(c *gin.Context) {
	totals, err := h.carts.Summary(c.Request.Context(), currentUser(c).ID, c.Query("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": totals})
}
