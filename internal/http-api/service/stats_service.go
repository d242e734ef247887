package service

import (
	"context"
	"math"
	"sort"
	"time"

	"readhub/internal/http-api/dto"
	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"
)

const monthlyActivityMonths = 6

const recentProgressLimit = 5

// ActivityEvent is one dated progress record fed to the monthly aggregator.
type ActivityEvent struct {
	Time   time.Time
	Status string
}

// MonthlyBuckets reduces activity events into one bucket per calendar
// month for the six months ending with now's month, oldest first. Only
// COMPLETED and READING entries are counted; total is their sum, so
// paused or not-started records never inflate it.
func MonthlyBuckets(events []ActivityEvent, now time.Time) []dto.MonthlyActivityBucket {
	loc := now.Location()
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(monthlyActivityMonths - 1), 0)

	buckets := make([]dto.MonthlyActivityBucket, monthlyActivityMonths)
	index := make(map[string]int, monthlyActivityMonths)
	for i := range buckets {
		m := base.AddDate(0, i, 0)
		buckets[i].Month = m.Format("Jan 2006")
		index[m.Format("2006-01")] = i
	}

	for _, ev := range events {
		i, ok := index[ev.Time.In(loc).Format("2006-01")]
		if !ok {
			continue
		}
		switch ev.Status {
		case models.StatusCompleted:
			buckets[i].Completed++
		case models.StatusReading:
			buckets[i].Started++
		default:
			continue
		}
		buckets[i].Total++
	}

	return buckets
}

// readingStats are the per-user numbers derived from a set of progress
// rows; the same reduction feeds the dashboard and the leaderboard.
type readingStats struct {
	BooksCompleted int
	BooksReading   int
	BooksStarted   int
	TotalPagesRead int
}

func reduceProgress(rows []models.Progress) readingStats {
	var st readingStats
	for _, row := range rows {
		switch row.Status {
		case models.StatusCompleted:
			st.BooksCompleted++
			if row.Book != nil {
				st.TotalPagesRead += row.Book.Pages
			} else {
				st.TotalPagesRead += row.TotalPages
			}
		case models.StatusReading:
			st.BooksReading++
		}
		if row.Status != models.StatusNotStarted {
			st.BooksStarted++
		}
	}
	return st
}

// completionRate is booksCompleted over booksStarted as a whole percent,
// 0 when nothing was started.
func completionRate(st readingStats) int {
	if st.BooksStarted == 0 {
		return 0
	}
	return int(math.Round(float64(st.BooksCompleted) / float64(st.BooksStarted) * 100))
}

// summaryRatingAverage is the mean teacher score over rated summaries,
// rounded to one decimal, 0 when none are rated.
func summaryRatingAverage(summaries []models.Summary) float64 {
	sum, n := 0, 0
	for _, s := range summaries {
		if s.Rating != nil {
			sum += *s.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

type StatsService interface {
	GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type statsService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
	summaryRepo  repository.SummaryRepository
	now          func() time.Time
}

func NewStatsService(
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	summaryRepo repository.SummaryRepository,
) StatsService {
	return &statsService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		summaryRepo:  summaryRepo,
		now:          time.Now,
	}
}

// GetDashboard assembles the signed-in user's dashboard from their full
// progress and summary history. All numbers here are all-time; the
// leaderboard is where time windows apply.
func (s *statsService) GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	rows, err := s.progressRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summaryRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := reduceProgress(rows)

	timestamps := make([]time.Time, 0, len(rows))
	events := make([]ActivityEvent, 0, len(rows))
	for _, row := range rows {
		timestamps = append(timestamps, row.UpdatedAt)
		events = append(events, ActivityEvent{Time: activityTime(row), Status: row.Status})
	}

	resp := &dto.DashboardResponse{
		User:            dto.FromModelToUserResponse(*user),
		ReadingStreak:   ReadingStreak(timestamps, now),
		BooksCompleted:  st.BooksCompleted,
		BooksReading:    st.BooksReading,
		TotalPagesRead:  st.TotalPagesRead,
		SummariesCount:  len(summaries),
		AverageRating:   summaryRatingAverage(summaries),
		CompletionRate:  completionRate(st),
		MonthlyActivity: MonthlyBuckets(events, now),
	}

	resp.CategoryBreakdown = categoryBreakdown(rows)

	recent := rows
	if len(recent) > recentProgressLimit {
		recent = recent[:recentProgressLimit]
	}
	resp.RecentProgress = make([]dto.ProgressResponse, 0, len(recent))
	for _, row := range recent {
		resp.RecentProgress = append(resp.RecentProgress, dto.FromModelToProgressResponse(row))
	}

	return resp, nil
}

// activityTime picks the timestamp that dates a row for monthly bucketing:
// completion time for completed books, start time for books being read,
// last update otherwise.
func activityTime(row models.Progress) time.Time {
	switch row.Status {
	case models.StatusCompleted:
		if row.CompletedAt != nil {
			return *row.CompletedAt
		}
	case models.StatusReading:
		if row.StartedAt != nil {
			return *row.StartedAt
		}
	}
	return row.UpdatedAt
}

func categoryBreakdown(rows []models.Progress) []dto.CategoryCount {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.Book != nil {
			counts[row.Book.Category]++
		}
	}

	breakdown := make([]dto.CategoryCount, 0, len(counts))
	for category, count := range counts {
		breakdown = append(breakdown, dto.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}
