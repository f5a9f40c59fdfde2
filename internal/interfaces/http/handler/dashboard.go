package handler

import (
	dashboardapp "github.com/bizops/backend/internal/application/dashboard"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard API endpoints
type DashboardHandler struct {
	BaseHandler
	dashboard *dashboardapp.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *dashboardapp.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.Stats)
}

// Stats returns the aggregated dashboard figures
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
