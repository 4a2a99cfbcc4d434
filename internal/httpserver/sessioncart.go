package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/sessioncart"
)

// sessionHeader carries the pre-auth cart identity. The server mints one on
// first contact and echoes it back so the client can persist it.
const sessionHeader = "X-Session-ID"

type adjustQuantityRequest struct {
	Action string `json:"action" binding:"required"`
}

// session returns the caller's session id, minting one when absent.
func (h *handlers) session(c *gin.Context) string {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		id = h.sessions.NewSession()
	}
	c.Header(sessionHeader, id)
	return id
}

func (h *handlers) sessionCartGet(c *gin.Context) {
	id := h.session(c)
	h.sessionCartJSON(c, id, h.sessions.Get(id))
}

// sessionCartToggle adds the product, or removes it entirely when already
// present. This is the pre-auth contract; the server cart's repeat-add
// increases quantity instead.
func (h *handlers) sessionCartToggle(c *gin.Context) {
	var item sessioncart.Item
	if err := c.ShouldBindJSON(&item); err != nil || item.ID == 0 {
		badRequest(c, "product id required")
		return
	}
	id := h.session(c)
	h.sessionCartJSON(c, id, h.sessions.Toggle(id, item))
}

func (h *handlers) sessionCartAdjust(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}
	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "action required")
		return
	}

	id := h.session(c)
	var items []sessioncart.Item
	switch req.Action {
	case "increase":
		items = h.sessions.IncreaseQty(id, productID)
	case "decrease":
		items = h.sessions.DecreaseQty(id, productID)
	default:
		badRequest(c, "action must be increase or decrease")
		return
	}
	h.sessionCartJSON(c, id, items)
}

func (h *handlers) sessionCartRemove(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}
	id := h.session(c)
	h.sessionCartJSON(c, id, h.sessions.Remove(id, productID))
}

func (h *handlers) sessionCartClear(c *gin.Context) {
	id := h.session(c)
	h.sessions.Clear(id)
	h.sessionCartJSON(c, id, nil)
}

func (h *handlers) sessionCartJSON(c *gin.Context, id string, items []sessioncart.Item) {
	if items == nil {
		items = []sessioncart.Item{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": id,
		"items":     items,
		"totals":    h.sessions.Totals(id),
	})
}
