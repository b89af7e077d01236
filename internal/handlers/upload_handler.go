package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/services"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// AddProductImage handles POST /admin/products/:id/images.
// It accepts either an uploaded "file" or an "image_url" field.
func (h *Handlers) AddProductImage(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 1. Prefer an uploaded file; otherwise take the URL as given.
	var input services.ImageInput
	if file, err := c.FormFile("file"); err == nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !imageExtensions[ext] {
			h.respondError(c, apperr.NewValidationError("file", "Only image files are allowed."))
			return
		}

		// 2. Create the uploads directory if it doesn't exist
		if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
			h.respondError(c, fmt.Errorf("create upload dir: %w", err))
			return
		}

		// 3. Save under a unique filename (uuid + extension)
		name := uuid.NewString() + ext
		if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, name)); err != nil {
			h.respondError(c, fmt.Errorf("save upload: %w", err))
			return
		}
		input.ImageURL = fmt.Sprintf("%s/uploads/%s", strings.TrimRight(h.BaseURL, "/"), name)
	} else if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	// 4. Attach to the product
	if _, err := h.Catalog.AddProductImage(c.Request.Context(), productID, input); err != nil {
		h.respondError(c, err)
		return
	}

	redirectWithFlash(c, "/products/"+strconv.FormatInt(productID, 10), "Image added.")
}
