package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Admin Dashboard ---
//

// GetDashboard returns the admin KPIs, all read from one snapshot.
// GET /admin
func (h *Handlers) GetDashboard(c *gin.Context) {
	summary, err := h.Catalog.DashboardSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formContext(c, "dashboard", gin.H{"summary": summary}))
}
