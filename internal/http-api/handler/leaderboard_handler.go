package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"readhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetLeaderboard)
}

// GetLeaderboard returns the ranked board for a cohort and time window
// GET /api/leaderboard?type=students&period=all&limit=10
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	lbType := c.DefaultQuery("type", service.LeaderboardTypeStudents)
	period := c.DefaultQuery("period", service.LeaderboardPeriodAll)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	board, err := h.leaderboardService.Get(ctx, lbType, period, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLeaderboardType) || errors.Is(err, service.ErrInvalidLeaderboardPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    board,
	})
}
