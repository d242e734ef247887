package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"readhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	statsService service.StatsService
}

func NewDashboardHandler(statsService service.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
}

// GetStats returns the caller's reading dashboard
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dashboard, err := h.statsService.GetDashboard(ctx, userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard,
	})
}
