package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"readhub/internal/http-api/dto"
	"readhub/internal/http-api/middleware"
	"readhub/internal/http-api/models"
	"readhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService service.SummaryService
	commentService service.CommentService
}

func NewSummaryHandler(
	summaryService service.SummaryService,
	commentService service.CommentService,
) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		commentService: commentService,
	}
}

// RegisterRoutes registers summary routes. Reads are public; writing
// requires auth and rating is additionally restricted to teachers.
func (h *SummaryHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/:summary_id", h.GetSummary)
	rg.GET("/:summary_id/comments", h.ListComments)

	rg.POST("", authMW, h.CreateSummary)
	rg.PATCH("/:summary_id/rating", authMW, middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), h.RateSummary)
}

// CreateSummary submits the caller's summary of a book
// POST /api/summaries
func (h *SummaryHandler) CreateSummary(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.CreateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.summaryService.Create(ctx, userID.(string), req.BookID, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrSummaryExists):
			c.JSON(http.StatusConflict, gin.H{"error": "you have already submitted a summary for this book"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    dto.FromModelToSummaryResponse(*summary),
	})
}

// GetSummary returns one summary with its author and book
// GET /api/summaries/:summary_id
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	summaryID, err := strconv.ParseInt(c.Param("summary_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid summary ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.summaryService.GetByID(ctx, summaryID)
	if err != nil {
		if errors.Is(err, service.ErrSummaryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "summary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.FromModelToSummaryResponse(*summary),
	})
}

// RateSummary scores a summary 1 to 5 and optionally leaves feedback
// PATCH /api/summaries/:summary_id/rating
func (h *SummaryHandler) RateSummary(c *gin.Context) {
	raterID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	summaryID, err := strconv.ParseInt(c.Param("summary_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid summary ID"})
		return
	}

	var req dto.RateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.summaryService.Rate(ctx, raterID.(string), summaryID, req.Rating, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSummaryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "summary not found"})
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rate summary"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": dto.RateSummaryResponse{
			Summary:       dto.FromModelToSummaryResponse(*result.Summary),
			PointsAwarded: result.PointsAwarded,
		},
	})
}

// ListComments returns a page of comments on a summary
// GET /api/summaries/:summary_id/comments?page=1&limit=20
func (h *SummaryHandler) ListComments(c *gin.Context) {
	summaryID, err := strconv.ParseInt(c.Param("summary_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid summary ID"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comments, total, err := h.commentService.GetBySummary(ctx, summaryID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrSummaryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "summary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comments"})
		return
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, cm := range comments {
		responses = append(responses, dto.FromModelToCommentResponse(cm))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": dto.PaginatedCommentResponse{
			Comments:   responses,
			Pagination: dto.NewPagination(page, limit, total),
		},
	})
}
