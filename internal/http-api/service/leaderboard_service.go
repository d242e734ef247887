package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"readhub/internal/cache"
	"readhub/internal/http-api/dto"
	"readhub/internal/http-api/models"
	"readhub/internal/http-api/repository"
)

// Leaderboard filters accepted by the API.
const (
	LeaderboardTypeStudents = "students"
	LeaderboardTypeTeachers = "teachers"
	LeaderboardTypeAll      = "all"

	LeaderboardPeriodAll   = "all"
	LeaderboardPeriodWeek  = "week"
	LeaderboardPeriodMonth = "month"
)

// The ranking view caps the displayed streak; the dashboard shows it uncapped.
const leaderboardStreakCap = 30

var (
	ErrInvalidLeaderboardType   = errors.New("invalid leaderboard type")
	ErrInvalidLeaderboardPeriod = errors.New("invalid leaderboard period")
)

type LeaderboardService interface {
	Get(ctx context.Context, lbType, period string, limit int) (*dto.LeaderboardResponse, error)
}

type leaderboardService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
	summaryRepo  repository.SummaryRepository
	cache        *cache.LeaderboardCache
	now          func() time.Time
}

func NewLeaderboardService(
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	summaryRepo repository.SummaryRepository,
	lbCache *cache.LeaderboardCache,
) LeaderboardService {
	return &leaderboardService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		summaryRepo:  summaryRepo,
		cache:        lbCache,
		now:          time.Now,
	}
}

// Get ranks every user matching the role filter by all-time points and
// derives per-user stats from the rows inside the requested window. The
// window never moves the ranking itself, only the derived stats. The
// result is truncated to limit after sorting, so rank 1 is always the
// true leader regardless of page size.
func (s *leaderboardService) Get(ctx context.Context, lbType, period string, limit int) (*dto.LeaderboardResponse, error) {
	var roles []string
	switch lbType {
	case LeaderboardTypeStudents:
		roles = []string{models.RoleStudent}
	case LeaderboardTypeTeachers:
		roles = []string{models.RoleTeacher, models.RoleAdmin}
	case LeaderboardTypeAll:
		roles = []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin}
	default:
		return nil, ErrInvalidLeaderboardType
	}

	now := s.now()
	var since *time.Time
	switch period {
	case LeaderboardPeriodAll:
	case LeaderboardPeriodWeek:
		t := now.AddDate(0, 0, -7)
		since = &t
	case LeaderboardPeriodMonth:
		t := now.AddDate(0, 0, -30)
		since = &t
	default:
		return nil, ErrInvalidLeaderboardPeriod
	}

	var cached dto.LeaderboardResponse
	if hit, err := s.cache.Get(ctx, lbType, period, limit, &cached); err == nil && hit {
		return &cached, nil
	}

	users, err := s.userRepo.GetByRoles(ctx, roles)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	rows, err := s.progressRepo.GetByUsersSince(ctx, userIDs, since)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summaryRepo.GetByUsersSince(ctx, userIDs, since)
	if err != nil {
		return nil, err
	}

	rowsByUser := make(map[string][]models.Progress, len(users))
	for _, row := range rows {
		rowsByUser[row.UserID] = append(rowsByUser[row.UserID], row)
	}
	summariesByUser := make(map[string][]models.Summary, len(users))
	for _, sum := range summaries {
		summariesByUser[sum.UserID] = append(summariesByUser[sum.UserID], sum)
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		userRows := rowsByUser[u.ID]
		st := reduceProgress(userRows)

		timestamps := make([]time.Time, 0, len(userRows))
		for _, row := range userRows {
			timestamps = append(timestamps, row.UpdatedAt)
		}
		streak := ReadingStreak(timestamps, now)
		if streak > leaderboardStreakCap {
			streak = leaderboardStreakCap
		}

		userSummaries := summariesByUser[u.ID]

		entries = append(entries, dto.LeaderboardEntry{
			UserID:         u.ID,
			Username:       u.Username,
			DisplayName:    u.DisplayName,
			Role:           u.Role,
			Points:         u.Points,
			Level:          u.Level,
			BooksCompleted: st.BooksCompleted,
			BooksReading:   st.BooksReading,
			TotalPagesRead: st.TotalPagesRead,
			SummariesCount: len(userSummaries),
			AverageRating:  summaryRatingAverage(userSummaries),
			CompletionRate: completionRate(st),
			ReadingStreak:  streak,
		})
	}

	// Stable sort keeps equal-point users in their original (signup) order,
	// so ties get distinct but deterministic sequential ranks.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}

	resp := &dto.LeaderboardResponse{
		Type:    lbType,
		Period:  period,
		Limit:   limit,
		Entries: entries,
	}

	if err := s.cache.Set(ctx, lbType, period, limit, resp); err != nil {
		// Cache write failure is not fatal; the next request recomputes
	}

	return resp, nil
}
