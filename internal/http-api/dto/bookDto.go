package dto

import (
	"time"

	"readhub/internal/http-api/models"
)

// CreateBookRequest used for POST /api/books
type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Author      string  `json:"author" binding:"required,max=255"`
	Category    string  `json:"category" binding:"required,max=100"`
	Difficulty  string  `json:"difficulty,omitempty" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Pages       int     `json:"pages,omitempty" binding:"omitempty,gte=0"`
	Language    string  `json:"language,omitempty" binding:"omitempty,max=10"`
	ISBN        *string `json:"isbn,omitempty" binding:"omitempty,max=20"`
	Description *string `json:"description,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
}

// UpdateBookRequest used for PUT /api/books/:id (partial updates allowed)
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Author      *string `json:"author,omitempty" binding:"omitempty,max=255"`
	Category    *string `json:"category,omitempty" binding:"omitempty,max=100"`
	Difficulty  *string `json:"difficulty,omitempty" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Pages       *int    `json:"pages,omitempty" binding:"omitempty,gte=0"`
	Language    *string `json:"language,omitempty" binding:"omitempty,max=10"`
	ISBN        *string `json:"isbn,omitempty" binding:"omitempty,max=20"`
	Description *string `json:"description,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
}

// BookResponse DTO for responses
type BookResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty"`
	Pages       int        `json:"pages"`
	Language    string     `json:"language"`
	ISBN        *string    `json:"isbn,omitempty"`
	Description *string    `json:"description,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// BookStatsResponse: reading aggregates shown on the detail page
type BookStatsResponse struct {
	ReadersCount   int64   `json:"readers_count"`
	CompletedCount int64   `json:"completed_count"`
	SummariesCount int64   `json:"summaries_count"`
	AverageRating  float64 `json:"average_rating"`
}

// BookDetailResponse: book plus its aggregates
type BookDetailResponse struct {
	BookResponse
	Stats BookStatsResponse `json:"stats"`
}

// Converters
func (d CreateBookRequest) ToModel() models.Book {
	return models.Book{
		Title:       d.Title,
		Author:      d.Author,
		Category:    d.Category,
		Difficulty:  d.Difficulty,
		Pages:       d.Pages,
		Language:    d.Language,
		ISBN:        d.ISBN,
		Description: d.Description,
		CoverURL:    d.CoverURL,
	}
}

// ToModel maps set fields onto a model, leaving unset ones at their zero
// value so the service can treat them as "no change".
func (d UpdateBookRequest) ToModel() models.Book {
	var b models.Book
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Author != nil {
		b.Author = *d.Author
	}
	if d.Category != nil {
		b.Category = *d.Category
	}
	if d.Difficulty != nil {
		b.Difficulty = *d.Difficulty
	}
	if d.Pages != nil {
		b.Pages = *d.Pages
	}
	if d.Language != nil {
		b.Language = *d.Language
	}
	b.ISBN = d.ISBN
	b.Description = d.Description
	b.CoverURL = d.CoverURL
	return b
}

func FromModelToBookResponse(b models.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		Difficulty:  b.Difficulty,
		Pages:       b.Pages,
		Language:    b.Language,
		ISBN:        b.ISBN,
		Description: b.Description,
		CoverURL:    b.CoverURL,
		CreatedAt:   b.CreatedAt,
	}
}
