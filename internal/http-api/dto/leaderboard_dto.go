package dto

// LeaderboardEntry: one ranked user with stats derived from the requested
// time window. Points and level are always all-time values; only the
// derived stats honor the window.
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

// LeaderboardResponse: the ranked page plus the filters that produced it
type LeaderboardResponse struct {
	Type    string             `json:"type"`
	Period  string             `json:"period"`
	Limit   int                `json:"limit"`
	Entries []LeaderboardEntry `json:"entries"`
}
