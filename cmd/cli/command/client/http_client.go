package client

// http_client.go wraps the ReadHub HTTP API for the CLI. Every response
// arrives in a {"success": ..., "data": ...} envelope; failures carry an
// "error" field instead.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Request/response structures mirroring the API wire format.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Points      int       `json:"points"`
	Level       int       `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type BookResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Category    string  `json:"category"`
	Difficulty  string  `json:"difficulty"`
	Pages       int     `json:"pages"`
	Language    string  `json:"language"`
	ISBN        *string `json:"isbn,omitempty"`
	Description *string `json:"description,omitempty"`
}

type BookStats struct {
	ReadersCount   int64   `json:"readers_count"`
	CompletedCount int64   `json:"completed_count"`
	SummariesCount int64   `json:"summaries_count"`
	AverageRating  float64 `json:"average_rating"`
}

type BookDetailResponse struct {
	BookResponse
	Stats BookStats `json:"stats"`
}

type BookListResponse struct {
	Books      []BookResponse `json:"books"`
	Pagination Pagination     `json:"pagination"`
}

// ListBooksOptions narrows the catalog listing. Zero values mean "no filter".
type ListBooksOptions struct {
	Search     string
	Category   string
	Difficulty string
	Page       int
	Limit      int
}

type UpdateProgressRequest struct {
	BookID      int64  `json:"book_id"`
	Status      string `json:"status,omitempty"`
	CurrentPage int    `json:"current_page,omitempty"`
	TotalPages  *int   `json:"total_pages,omitempty"`
}

type ProgressResponse struct {
	UserID             string        `json:"user_id"`
	BookID             int64         `json:"book_id"`
	Status             string        `json:"status"`
	CurrentPage        int           `json:"current_page"`
	TotalPages         int           `json:"total_pages"`
	ProgressPercentage float64       `json:"progress_percentage"`
	StartedAt          *time.Time    `json:"started_at,omitempty"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	UpdatedAt          time.Time     `json:"updated_at"`
	Book               *BookResponse `json:"book,omitempty"`
}

type ProgressUpdateResponse struct {
	Progress      ProgressResponse `json:"progress"`
	PointsAwarded int              `json:"points_awarded"`
	TotalPoints   int              `json:"total_points"`
	Level         int              `json:"level"`
}

type CreateSummaryRequest struct {
	BookID  int64   `json:"book_id"`
	Title   *string `json:"title,omitempty"`
	Content string  `json:"content"`
}

type RateSummaryRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback,omitempty"`
}

type SummaryResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	BookID    int64     `json:"book_id"`
	BookTitle string    `json:"book_title,omitempty"`
	Title     *string   `json:"title,omitempty"`
	Content   string    `json:"content"`
	Rating    *int      `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RateSummaryResponse struct {
	Summary       SummaryResponse `json:"summary"`
	PointsAwarded int             `json:"points_awarded"`
}

type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"user_id"`
	Username       string  `json:"username"`
	DisplayName    string  `json:"display_name"`
	Role           string  `json:"role"`
	Points         int     `json:"points"`
	Level          int     `json:"level"`
	BooksCompleted int     `json:"books_completed"`
	BooksReading   int     `json:"books_reading"`
	TotalPagesRead int     `json:"total_pages_read"`
	SummariesCount int     `json:"summaries_count"`
	AverageRating  float64 `json:"average_rating"`
	CompletionRate int     `json:"completion_rate"`
	ReadingStreak  int     `json:"reading_streak"`
}

type LeaderboardResponse struct {
	Type    string             `json:"type"`
	Period  string             `json:"period"`
	Limit   int                `json:"limit"`
	Entries []LeaderboardEntry `json:"entries"`
}

type MonthlyActivityBucket struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
	Started   int    `json:"started"`
	Total     int    `json:"total"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type DashboardResponse struct {
	User              UserResponse            `json:"user"`
	ReadingStreak     int                     `json:"reading_streak"`
	BooksCompleted    int                     `json:"books_completed"`
	BooksReading      int                     `json:"books_reading"`
	TotalPagesRead    int                     `json:"total_pages_read"`
	SummariesCount    int                     `json:"summaries_count"`
	AverageRating     float64                 `json:"average_rating"`
	CompletionRate    int                     `json:"completion_rate"`
	MonthlyActivity   []MonthlyActivityBucket `json:"monthly_activity"`
	CategoryBreakdown []CategoryCount         `json:"category_breakdown"`
	RecentProgress    []ProgressResponse      `json:"recent_progress"`
}

// apiEnvelope is the wrapper every endpoint responds with.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends one request with the auth header and JSON body handling shared
// by every endpoint.
func (c *HTTPClient) do(method, path string, body interface{}) (*http.Response, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// decode reads the envelope, surfaces the server's error message when the
// status is unexpected, and unmarshals data into out (which may be nil).
func decode(resp *http.Response, expectStatus int, out interface{}) error {
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("request failed with status %s", resp.Status)
	}

	if resp.StatusCode != expectStatus {
		if env.Error != "" {
			return fmt.Errorf("%s", env.Error)
		}
		return fmt.Errorf("request failed with status %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// Auth

func (c *HTTPClient) Register(request *RegisterRequest) (*UserResponse, error) {
	resp, err := c.do("POST", "/api/auth/register", request)
	if err != nil {
		return nil, err
	}

	var result UserResponse
	if err := decode(resp, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(request *LoginRequest) (*AuthResponse, error) {
	resp, err := c.do("POST", "/api/auth/login", request)
	if err != nil {
		return nil, err
	}

	var result AuthResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RefreshToken(refreshToken string) (*RefreshTokenResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := c.do("POST", "/api/auth/refresh", body)
	if err != nil {
		return nil, err
	}

	var result RefreshTokenResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RevokeToken(refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := c.do("POST", "/api/auth/revoke", body)
	if err != nil {
		return err
	}
	return decode(resp, http.StatusOK, nil)
}

func (c *HTTPClient) GetMe() (*UserResponse, error) {
	resp, err := c.do("GET", "/api/users/me", nil)
	if err != nil {
		return nil, err
	}

	var result UserResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Books

func (c *HTTPClient) ListBooks(opts ListBooksOptions) (*BookListResponse, error) {
	params := url.Values{}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.Difficulty != "" {
		params.Set("difficulty", opts.Difficulty)
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/api/books"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.do("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var result BookListResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetBook(id int64) (*BookDetailResponse, error) {
	resp, err := c.do("GET", fmt.Sprintf("/api/books/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var result BookDetailResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetCategories() ([]string, error) {
	resp, err := c.do("GET", "/api/books/categories", nil)
	if err != nil {
		return nil, err
	}

	var result []string
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) ListBookSummaries(bookID int64) ([]SummaryResponse, error) {
	resp, err := c.do("GET", fmt.Sprintf("/api/books/%d/summaries", bookID), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Summaries  []SummaryResponse `json:"summaries"`
		Pagination Pagination        `json:"pagination"`
	}
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.Summaries, nil
}

// Progress

func (c *HTTPClient) UpdateProgress(request *UpdateProgressRequest) (*ProgressUpdateResponse, error) {
	resp, err := c.do("POST", "/api/progress", request)
	if err != nil {
		return nil, err
	}

	var result ProgressUpdateResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetProgress(bookID int64) (*ProgressResponse, error) {
	resp, err := c.do("GET", fmt.Sprintf("/api/progress/%d", bookID), nil)
	if err != nil {
		return nil, err
	}

	var result ProgressResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListProgress() ([]ProgressResponse, error) {
	resp, err := c.do("GET", "/api/progress", nil)
	if err != nil {
		return nil, err
	}

	var result []ProgressResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Summaries

func (c *HTTPClient) CreateSummary(request *CreateSummaryRequest) (*SummaryResponse, error) {
	resp, err := c.do("POST", "/api/summaries", request)
	if err != nil {
		return nil, err
	}

	var result SummaryResponse
	if err := decode(resp, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetSummary(id int64) (*SummaryResponse, error) {
	resp, err := c.do("GET", fmt.Sprintf("/api/summaries/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var result SummaryResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RateSummary(id int64, request *RateSummaryRequest) (*RateSummaryResponse, error) {
	resp, err := c.do("PATCH", fmt.Sprintf("/api/summaries/%d/rating", id), request)
	if err != nil {
		return nil, err
	}

	var result RateSummaryResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Leaderboard and dashboard

func (c *HTTPClient) GetLeaderboard(lbType, period string, limit int) (*LeaderboardResponse, error) {
	params := url.Values{}
	if lbType != "" {
		params.Set("type", lbType)
	}
	if period != "" {
		params.Set("period", period)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/leaderboard"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.do("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var result LeaderboardResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetDashboard() (*DashboardResponse, error) {
	resp, err := c.do("GET", "/api/dashboard/stats", nil)
	if err != nil {
		return nil, err
	}

	var result DashboardResponse
	if err := decode(resp, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
