package service

import (
	"context"
	"testing"

	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBookServiceForTest(db *gorm.DB) BookService {
	return NewBookService(
		repository.NewBookRepo(db),
		repository.NewProgressRepository(db),
		repository.NewSummaryRepository(db),
	)
}

func TestBookCreate_FillsDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)

	book := &models.Book{Title: "  Dune ", Author: " Frank Herbert ", Category: "Science Fiction"}
	err := svc.Create(context.Background(), book)

	assert.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, models.DifficultyBeginner, book.Difficulty)
	assert.Equal(t, "en", book.Language)
}

func TestBookCreate_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)
	ctx := context.Background()

	err := svc.Create(ctx, &models.Book{Author: "A", Category: "C"})
	assert.EqualError(t, err, "title is required")

	err = svc.Create(ctx, &models.Book{Title: "T", Category: "C"})
	assert.EqualError(t, err, "author is required")

	err = svc.Create(ctx, &models.Book{Title: "T", Author: "A"})
	assert.EqualError(t, err, "category is required")

	err = svc.Create(ctx, &models.Book{Title: "T", Author: "A", Category: "C", Difficulty: "IMPOSSIBLE"})
	assert.EqualError(t, err, "invalid difficulty")

	err = svc.Create(ctx, &models.Book{Title: "T", Author: "A", Category: "C", Pages: -5})
	assert.EqualError(t, err, "pages must not be negative")
}

func TestBookGetAll_FiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)
	ctx := context.Background()

	for _, b := range []*models.Book{
		{Title: "Dune", Author: "Herbert", Category: "Science Fiction", Difficulty: models.DifficultyAdvanced},
		{Title: "Emma", Author: "Austen", Category: "Classics", Difficulty: models.DifficultyIntermediate},
		{Title: "Foundation", Author: "Asimov", Category: "Science Fiction", Difficulty: models.DifficultyIntermediate},
		{Title: "Hyperion", Author: "Simmons", Category: "Science Fiction", Difficulty: models.DifficultyAdvanced},
	} {
		require.NoError(t, svc.Create(ctx, b))
	}

	scifi, total, err := svc.GetAll(ctx, 1, 10, "", "Science Fiction", "")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, scifi, 3)

	advanced, total, err := svc.GetAll(ctx, 1, 10, "", "Science Fiction", models.DifficultyAdvanced)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, advanced, 2)

	// Page size smaller than the result set still reports the full total
	page1, total, err := svc.GetAll(ctx, 1, 2, "", "Science Fiction", "")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page1, 2)
}

func TestBookGetAll_InvalidDifficulty(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)

	_, _, err := svc.GetAll(context.Background(), 1, 10, "", "", "IMPOSSIBLE")

	assert.EqualError(t, err, "invalid difficulty filter")
}

func TestBookUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)
	ctx := context.Background()

	book := &models.Book{Title: "Dune", Author: "Herbert", Category: "Science Fiction", Pages: 300}
	require.NoError(t, svc.Create(ctx, book))

	desc := "A desert planet and its spice."
	updated, err := svc.Update(ctx, book.ID, &models.Book{Pages: 412, Description: &desc})

	assert.NoError(t, err)
	assert.Equal(t, "Dune", updated.Title)
	assert.Equal(t, "Herbert", updated.Author)
	assert.Equal(t, 412, updated.Pages)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
}

func TestBookUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)

	_, err := svc.Update(context.Background(), 9999, &models.Book{Title: "Ghost"})

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookDelete_RemovesRow(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)
	ctx := context.Background()

	book := &models.Book{Title: "Dune", Author: "Herbert", Category: "Science Fiction"}
	require.NoError(t, svc.Create(ctx, book))

	assert.NoError(t, svc.Delete(ctx, book.ID))

	_, err := svc.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)

	err := svc.Delete(context.Background(), 9999)

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookGetStats(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)
	book := seedBook(t, db, "Dune", 300)
	readerOne := seedUser(t, db, "one", 0)
	readerTwo := seedUser(t, db, "two", 0)

	require.NoError(t, db.Create(&models.Progress{
		UserID: readerOne.ID, BookID: book.ID, Status: models.StatusCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.Progress{
		UserID: readerTwo.ID, BookID: book.ID, Status: models.StatusReading,
	}).Error)

	rating := 4
	require.NoError(t, db.Create(&models.Summary{
		UserID: readerOne.ID, BookID: book.ID, Content: "Great.", Rating: &rating,
	}).Error)
	require.NoError(t, db.Create(&models.Summary{
		UserID: readerTwo.ID, BookID: book.ID, Content: "Still reading.",
	}).Error)

	stats, err := svc.GetStats(context.Background(), book.ID)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.ReadersCount)
	assert.Equal(t, int64(1), stats.CompletedCount)
	assert.Equal(t, int64(2), stats.SummariesCount)
	// The unrated summary stays out of the average
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
}

func TestBookGetCategories_DistinctSorted(t *testing.T) {
	db := newTestDB(t)
	svc := newBookServiceForTest(db)
	ctx := context.Background()

	for _, b := range []*models.Book{
		{Title: "Dune", Author: "Herbert", Category: "Science Fiction"},
		{Title: "Emma", Author: "Austen", Category: "Classics"},
		{Title: "Foundation", Author: "Asimov", Category: "Science Fiction"},
	} {
		require.NoError(t, svc.Create(ctx, b))
	}

	categories, err := svc.GetCategories(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Classics", "Science Fiction"}, categories)
}
