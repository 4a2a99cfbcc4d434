package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func (h *handlers) listProducts(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusOK, gin.H{"products": []domain.Product{}})
		return
	}
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct serves from the imported table; a numeric id missing locally
// falls through to the live catalog.
func (h *handlers) getProduct(c *gin.Context) {
	ref := c.Param("id")
	ctx := c.Request.Context()

	if h.products != nil {
		p, err := h.products.GetByRef(ctx, ref)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"product": p})
			return
		}
		if !errors.Is(err, domain.ErrNotFound) {
			h.respondError(c, err)
			return
		}
	}

	externalID, parseErr := strconv.ParseInt(ref, 10, 64)
	if h.catalog == nil || parseErr != nil {
		h.respondError(c, domain.ErrNotFound)
		return
	}
	upstream, err := h.catalog.Product(ctx, externalID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": domain.Product{
		ExternalID:  upstream.ID,
		Title:       upstream.Title,
		Price:       upstream.Price,
		Description: upstream.Description,
		Category:    upstream.Category,
		Image:       upstream.Image,
		CreatedAt:   time.Now().UTC(),
	}})
}
