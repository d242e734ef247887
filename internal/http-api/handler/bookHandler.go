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

type BookHandler struct {
	bookService    service.BookService
	summaryService service.SummaryService
	commentService service.CommentService
}

func NewBookHandler(
	bookService service.BookService,
	summaryService service.SummaryService,
	commentService service.CommentService,
) *BookHandler {
	return &BookHandler{
		bookService:    bookService,
		summaryService: summaryService,
		commentService: commentService,
	}
}

// RegisterRoutes registers book routes. Reads are public; catalog writes
// require a teacher account and deletion an admin one.
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("", h.ListBooks)
	rg.GET("/categories", h.GetCategories)
	rg.GET("/:book_id", h.GetBook)
	rg.GET("/:book_id/summaries", h.ListSummaries)
	rg.GET("/:book_id/comments", h.ListComments)

	rg.POST("", authMW, middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), h.CreateBook)
	rg.PUT("/:book_id", authMW, middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), h.UpdateBook)
	rg.DELETE("/:book_id", authMW, middleware.RequireRoles(models.RoleAdmin), h.DeleteBook)
	rg.POST("/:book_id/comments", authMW, h.CreateComment)
}

// ListBooks returns a page of the catalog with optional filters
// GET /api/books?page=1&limit=20&search=&category=&difficulty=
func (h *BookHandler) ListBooks(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	search := c.Query("search")
	category := c.Query("category")
	difficulty := c.Query("difficulty")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	books, total, err := h.bookService.GetAll(ctx, page, limit, search, category, difficulty)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch books"})
		return
	}

	responses := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		responses = append(responses, dto.FromModelToBookResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"books":      responses,
			"pagination": dto.NewPagination(page, limit, total),
		},
	})
}

// GetBook returns one book with its reading aggregates
// GET /api/books/:book_id
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.bookService.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch book"})
		return
	}

	stats, err := h.bookService.GetStats(ctx, bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch book stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": dto.BookDetailResponse{
			BookResponse: dto.FromModelToBookResponse(*book),
			Stats: dto.BookStatsResponse{
				ReadersCount:   stats.ReadersCount,
				CompletedCount: stats.CompletedCount,
				SummariesCount: stats.SummariesCount,
				AverageRating:  stats.AverageRating,
			},
		},
	})
}

// GetCategories returns the distinct catalog categories
// GET /api/books/categories
func (h *BookHandler) GetCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.bookService.GetCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// CreateBook adds a book to the catalog
// POST /api/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book := req.ToModel()
	if err := h.bookService.Create(ctx, &book); err != nil {
		if errors.Is(err, service.ErrDuplicateISBN) {
			c.JSON(http.StatusConflict, gin.H{"error": "a book with this ISBN already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    dto.FromModelToBookResponse(book),
	})
}

// UpdateBook changes catalog fields on an existing book
// PUT /api/books/:book_id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	patch := req.ToModel()
	book, err := h.bookService.Update(ctx, bookID, &patch)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		if errors.Is(err, service.ErrDuplicateISBN) {
			c.JSON(http.StatusConflict, gin.H{"error": "a book with this ISBN already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.FromModelToBookResponse(*book),
	})
}

// DeleteBook removes a book from the catalog
// DELETE /api/books/:book_id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.bookService.Delete(ctx, bookID); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "book deleted",
	})
}

// ListSummaries returns a page of summaries written for a book
// GET /api/books/:book_id/summaries?page=1&limit=20
func (h *BookHandler) ListSummaries(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
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

	summaries, total, err := h.summaryService.GetByBook(ctx, bookID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summaries"})
		return
	}

	responses := make([]dto.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, dto.FromModelToSummaryResponse(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": dto.PaginatedSummaryResponse{
			Summaries:  responses,
			Pagination: dto.NewPagination(page, limit, total),
		},
	})
}

// CreateComment posts a comment on a book page
// POST /api/books/:book_id/comments
func (h *BookHandler) CreateComment(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.commentService.CreateForBook(ctx, userID.(string), bookID, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    dto.FromModelToCommentResponse(*comment),
	})
}

// ListComments returns a page of comments on a book
// GET /api/books/:book_id/comments?page=1&limit=20
func (h *BookHandler) ListComments(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
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

	comments, total, err := h.commentService.GetByBook(ctx, bookID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
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
