package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Home is the handler for GET /.
func (h *Handlers) Home(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context(), 1, 8)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formContext(c, "home", gin.H{"products": products}))
}

// ListProducts is the handler for GET /products?page=&per_page=.
func (h *Handlers) ListProducts(c *gin.Context) {
	// Bad numbers fall back to the defaults.
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	products, err := h.Catalog.ListProducts(c.Request.Context(), page, perPage)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "page": page})
}

// GetProduct is the handler for GET /products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.Catalog.ProductDetail(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetAllCategories is the handler for GET /categories.
func (h *Handlers) GetAllCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryProducts is the handler for GET /categories/:id.
func (h *Handlers) GetCategoryProducts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	listing, err := h.Catalog.CategoryProducts(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
