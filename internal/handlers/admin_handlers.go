package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/services"
)

//
// --- Admin: Product & Category Handlers ---
//
// Every route here sits behind middleware.RequireAdmin.
//

// AddProductForm is the handler for GET /admin/add_product. Categories are
// listed for the category_id select.
func (h *Handlers) AddProductForm(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formContext(c, "add_product", gin.H{
		"fields": []string{"name", "description", "brand", "sku", "price",
			"discount_price", "stock", "category_id"},
		"categories": categories,
	}))
}

// AddProduct is the handler for POST /admin/add_product.
func (h *Handlers) AddProduct(c *gin.Context) {
	// 1. --- Bind Input ---
	var input services.ProductInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}
	// A blank form field means no discount, not a discount of zero.
	if v, ok := c.GetPostForm("discount_price"); ok && strings.TrimSpace(v) == "" {
		input.DiscountPrice = nil
	}

	// 2. --- Create Product ---
	product, err := h.Catalog.AddProduct(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Back to Dashboard ---
	redirectWithFlash(c, "/admin", "Product \""+product.Name+"\" added.")
}

// CreateCategory is the handler for POST /admin/categories.
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input services.CategoryInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	category, err := h.Catalog.CreateCategory(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	redirectWithFlash(c, "/admin/add_product", "Category \""+category.Name+"\" created.")
}

// GetInventory is the handler for GET /admin/products/:id/inventory.
func (h *Handlers) GetInventory(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	records, err := h.Catalog.Inventory(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(records))
	for _, r := range records {
		out = append(out, gin.H{"record": r, "needsReorder": r.NeedsReorder()})
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "inventory": out})
}
