package dto

// MonthlyActivityBucket: one calendar month of reading activity. Total
// counts completed and started entries only.
type MonthlyActivityBucket struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
	Started   int    `json:"started"`
	Total     int    `json:"total"`
}

// CategoryCount: how many of the user's tracked books fall in a category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DashboardResponse: everything the student dashboard shows for one user
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
