package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"readhub/internal/http-api/dto"
	"readhub/internal/http-api/models"
	"readhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProgressService mocks the ProgressService interface
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) Update(ctx context.Context, userID string, bookID int64, currentPage int, status string, totalPages *int) (*service.ProgressUpdateResult, error) {
	args := m.Called(ctx, userID, bookID, currentPage, status, totalPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProgressUpdateResult), args.Error(1)
}

func (m *MockProgressService) Get(ctx context.Context, userID string, bookID int64) (*models.Progress, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressService) GetByUser(ctx context.Context, userID string) ([]models.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Progress), args.Error(1)
}

// asUser stands in for the auth middleware and injects the token identity
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
	}
}

func TestUpdateProgress_OK(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.POST("/progress", asUser("user-123"), h.UpdateProgress)

	result := &service.ProgressUpdateResult{
		Progress: &models.Progress{
			UserID:             "user-123",
			BookID:             42,
			Status:             models.StatusReading,
			CurrentPage:        150,
			TotalPages:         300,
			ProgressPercentage: 50,
		},
		PointsAwarded: 25,
		TotalPoints:   25,
		Level:         1,
	}
	mockProgressService.On("Update", mock.Anything, "user-123", int64(42), 150, models.StatusReading, mock.Anything).
		Return(result, nil)

	body, _ := json.Marshal(dto.UpdateProgressRequest{
		BookID:      42,
		Status:      models.StatusReading,
		CurrentPage: 150,
	})
	req, _ := http.NewRequest("POST", "/progress", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                       `json:"success"`
		Data    dto.ProgressUpdateResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.True(t, response.Success)
	assert.Equal(t, 25, response.Data.PointsAwarded)
	assert.Equal(t, 25, response.Data.TotalPoints)
	assert.Equal(t, models.StatusReading, response.Data.Progress.Status)
	assert.Equal(t, int64(42), response.Data.Progress.BookID)

	mockProgressService.AssertExpectations(t)
}

func TestUpdateProgress_RequiresAuth(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.POST("/progress", h.UpdateProgress)

	body, _ := json.Marshal(dto.UpdateProgressRequest{BookID: 42, CurrentPage: 10})
	req, _ := http.NewRequest("POST", "/progress", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockProgressService.AssertNotCalled(t, "Update")
}

func TestUpdateProgress_BookMissing(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.POST("/progress", asUser("user-123"), h.UpdateProgress)

	mockProgressService.On("Update", mock.Anything, "user-123", int64(9999), 10, "", mock.Anything).
		Return(nil, service.ErrBookNotFound)

	body, _ := json.Marshal(dto.UpdateProgressRequest{BookID: 9999, CurrentPage: 10})
	req, _ := http.NewRequest("POST", "/progress", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "book not found", response["error"])

	mockProgressService.AssertExpectations(t)
}

func TestUpdateProgress_UnknownStatusRejected(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.POST("/progress", asUser("user-123"), h.UpdateProgress)

	body, _ := json.Marshal(dto.UpdateProgressRequest{BookID: 42, Status: "SKIMMING"})
	req, _ := http.NewRequest("POST", "/progress", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockProgressService.AssertNotCalled(t, "Update")
}

func TestUpdateProgress_MissingBookID(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.POST("/progress", asUser("user-123"), h.UpdateProgress)

	req, _ := http.NewRequest("POST", "/progress", bytes.NewBuffer([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockProgressService.AssertNotCalled(t, "Update")
}

func TestGetProgress_OK(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.GET("/progress/:book_id", asUser("user-123"), h.GetProgress)

	mockProgressService.On("Get", mock.Anything, "user-123", int64(42)).
		Return(&models.Progress{UserID: "user-123", BookID: 42, Status: models.StatusReading}, nil)

	req, _ := http.NewRequest("GET", "/progress/42", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                 `json:"success"`
		Data    dto.ProgressResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(42), response.Data.BookID)

	mockProgressService.AssertExpectations(t)
}

func TestGetProgress_NoneRecorded(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.GET("/progress/:book_id", asUser("user-123"), h.GetProgress)

	mockProgressService.On("Get", mock.Anything, "user-123", int64(42)).
		Return(nil, nil)

	req, _ := http.NewRequest("GET", "/progress/42", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "no progress recorded for this book", response["error"])
}

func TestGetProgress_BadID(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.GET("/progress/:book_id", asUser("user-123"), h.GetProgress)

	req, _ := http.NewRequest("GET", "/progress/abc", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockProgressService.AssertNotCalled(t, "Get")
}

func TestListProgress_OK(t *testing.T) {
	mockProgressService := new(MockProgressService)
	h := NewProgressHandler(mockProgressService)
	router := setupRouter()
	router.GET("/progress", asUser("user-123"), h.ListProgress)

	rows := []models.Progress{
		{UserID: "user-123", BookID: 1, Status: models.StatusCompleted},
		{UserID: "user-123", BookID: 2, Status: models.StatusReading},
	}
	mockProgressService.On("GetByUser", mock.Anything, "user-123").Return(rows, nil)

	req, _ := http.NewRequest("GET", "/progress", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                   `json:"success"`
		Data    []dto.ProgressResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Data, 2)

	mockProgressService.AssertExpectations(t)
}
