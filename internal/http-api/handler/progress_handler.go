package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"readhub/internal/http-api/dto"
	"readhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers progress routes. The whole group requires auth;
// every operation is scoped to the calling user.
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.UpdateProgress)
	rg.GET("", h.ListProgress)
	rg.GET("/:book_id", h.GetProgress)
}

// UpdateProgress records the caller's position in a book and returns any
// points earned by the update
// POST /api/progress
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.progressService.Update(ctx, userID.(string), req.BookID, req.CurrentPage, req.Status, req.TotalPages)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": dto.ProgressUpdateResponse{
			Progress:      dto.FromModelToProgressResponse(*result.Progress),
			PointsAwarded: result.PointsAwarded,
			TotalPoints:   result.TotalPoints,
			Level:         result.Level,
		},
	})
}

// ListProgress returns all of the caller's progress rows, newest first
// GET /api/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.progressService.GetByUser(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch progress"})
		return
	}

	responses := make([]dto.ProgressResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.FromModelToProgressResponse(row))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    responses,
	})
}

// GetProgress returns the caller's progress for one book
// GET /api/progress/:book_id
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.Get(ctx, userID.(string), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch progress"})
		return
	}
	if progress == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no progress recorded for this book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.FromModelToProgressResponse(*progress),
	})
}
