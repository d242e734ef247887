package service

import (
	"context"
	"testing"
	"time"

	"readhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLeaderboardFixture(users []models.User, rows []models.Progress, summaries []models.Summary) (*MockUserRepository, *MockProgressRepository, *MockSummaryRepository, LeaderboardService) {
	mockUserRepo := new(MockUserRepository)
	mockProgressRepo := new(MockProgressRepository)
	mockSummaryRepo := new(MockSummaryRepository)

	mockUserRepo.On("GetByRoles", mock.Anything, mock.Anything).Return(users, nil)
	mockProgressRepo.On("GetByUsersSince", mock.Anything, mock.Anything, mock.Anything).Return(rows, nil)
	mockSummaryRepo.On("GetByUsersSince", mock.Anything, mock.Anything, mock.Anything).Return(summaries, nil)

	svc := NewLeaderboardService(mockUserRepo, mockProgressRepo, mockSummaryRepo, nil)
	return mockUserRepo, mockProgressRepo, mockSummaryRepo, svc
}

func TestLeaderboard_RanksByPoints(t *testing.T) {
	users := []models.User{
		{ID: "u1", Username: "first", Role: models.RoleStudent, Points: 100},
		{ID: "u2", Username: "second", Role: models.RoleStudent, Points: 500},
		{ID: "u3", Username: "third", Role: models.RoleStudent, Points: 300},
	}
	_, _, _, svc := newLeaderboardFixture(users, nil, nil)

	board, err := svc.Get(context.Background(), "students", "all", 10)

	assert.NoError(t, err)
	assert.Len(t, board.Entries, 3)
	assert.Equal(t, "second", board.Entries[0].Username)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, "third", board.Entries[1].Username)
	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.Equal(t, "first", board.Entries[2].Username)
	assert.Equal(t, 3, board.Entries[2].Rank)
}

func TestLeaderboard_TiesKeepSignupOrder(t *testing.T) {
	// GetByRoles returns users in signup order; equal points keep it.
	users := []models.User{
		{ID: "u1", Username: "older", Role: models.RoleStudent, Points: 200},
		{ID: "u2", Username: "newer", Role: models.RoleStudent, Points: 200},
	}
	_, _, _, svc := newLeaderboardFixture(users, nil, nil)

	board, err := svc.Get(context.Background(), "students", "all", 10)

	assert.NoError(t, err)
	assert.Equal(t, "older", board.Entries[0].Username)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, "newer", board.Entries[1].Username)
	assert.Equal(t, 2, board.Entries[1].Rank)
}

func TestLeaderboard_TruncatesAfterSorting(t *testing.T) {
	users := []models.User{
		{ID: "u1", Username: "low", Role: models.RoleStudent, Points: 10},
		{ID: "u2", Username: "top", Role: models.RoleStudent, Points: 900},
		{ID: "u3", Username: "mid", Role: models.RoleStudent, Points: 400},
	}
	_, _, _, svc := newLeaderboardFixture(users, nil, nil)

	board, err := svc.Get(context.Background(), "students", "all", 2)

	assert.NoError(t, err)
	assert.Len(t, board.Entries, 2)
	// Rank 1 is the true leader even on a short page
	assert.Equal(t, "top", board.Entries[0].Username)
	assert.Equal(t, "mid", board.Entries[1].Username)
}

func TestLeaderboard_UsersWithoutActivityStillRanked(t *testing.T) {
	users := []models.User{
		{ID: "u1", Username: "idle", Role: models.RoleStudent, Points: 0, Level: 1},
	}
	_, _, _, svc := newLeaderboardFixture(users, nil, nil)

	board, err := svc.Get(context.Background(), "students", "all", 10)

	assert.NoError(t, err)
	assert.Len(t, board.Entries, 1)
	entry := board.Entries[0]
	assert.Equal(t, 1, entry.Rank)
	assert.Equal(t, 0, entry.BooksCompleted)
	assert.Equal(t, 0, entry.TotalPagesRead)
	assert.Equal(t, 0, entry.ReadingStreak)
	assert.Equal(t, float64(0), entry.AverageRating)
}

func TestLeaderboard_DerivedStatsComeFromRows(t *testing.T) {
	users := []models.User{
		{ID: "u1", Username: "reader", Role: models.RoleStudent, Points: 250, Level: 2},
	}
	rows := []models.Progress{
		{UserID: "u1", Status: models.StatusCompleted, Book: &models.Book{Pages: 320}},
		{UserID: "u1", Status: models.StatusReading},
	}
	rating := 5
	summaries := []models.Summary{
		{UserID: "u1", Rating: &rating},
	}
	_, _, _, svc := newLeaderboardFixture(users, rows, summaries)

	board, err := svc.Get(context.Background(), "students", "all", 10)

	assert.NoError(t, err)
	entry := board.Entries[0]
	assert.Equal(t, 1, entry.BooksCompleted)
	assert.Equal(t, 1, entry.BooksReading)
	assert.Equal(t, 320, entry.TotalPagesRead)
	assert.Equal(t, 1, entry.SummariesCount)
	assert.Equal(t, 5.0, entry.AverageRating)
	assert.Equal(t, 50, entry.CompletionRate)
	assert.Equal(t, 250, entry.Points)
}

func TestLeaderboard_TeacherBoardIncludesAdmins(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProgressRepo := new(MockProgressRepository)
	mockSummaryRepo := new(MockSummaryRepository)

	users := []models.User{
		{ID: "t1", Username: "teach", Role: models.RoleTeacher, Points: 50},
		{ID: "a1", Username: "admin", Role: models.RoleAdmin, Points: 10},
	}
	mockUserRepo.On("GetByRoles", mock.Anything, []string{models.RoleTeacher, models.RoleAdmin}).Return(users, nil)
	mockProgressRepo.On("GetByUsersSince", mock.Anything, mock.Anything, mock.Anything).Return([]models.Progress{}, nil)
	mockSummaryRepo.On("GetByUsersSince", mock.Anything, mock.Anything, mock.Anything).Return([]models.Summary{}, nil)

	svc := NewLeaderboardService(mockUserRepo, mockProgressRepo, mockSummaryRepo, nil)
	board, err := svc.Get(context.Background(), "teachers", "all", 10)

	assert.NoError(t, err)
	assert.Len(t, board.Entries, 2)
	mockUserRepo.AssertExpectations(t)
}

func TestLeaderboard_WeekWindowPassesCutoff(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProgressRepo := new(MockProgressRepository)
	mockSummaryRepo := new(MockSummaryRepository)

	users := []models.User{
		{ID: "u1", Username: "reader", Role: models.RoleStudent, Points: 999},
	}
	sinceNotNil := mock.MatchedBy(func(since *time.Time) bool { return since != nil })
	mockUserRepo.On("GetByRoles", mock.Anything, mock.Anything).Return(users, nil)
	mockProgressRepo.On("GetByUsersSince", mock.Anything, mock.Anything, sinceNotNil).Return([]models.Progress{}, nil)
	mockSummaryRepo.On("GetByUsersSince", mock.Anything, mock.Anything, sinceNotNil).Return([]models.Summary{}, nil)

	svc := NewLeaderboardService(mockUserRepo, mockProgressRepo, mockSummaryRepo, nil)
	board, err := svc.Get(context.Background(), "students", "week", 10)

	assert.NoError(t, err)
	// Points stay all-time even when the window narrows the derived stats
	assert.Equal(t, 999, board.Entries[0].Points)
	mockProgressRepo.AssertExpectations(t)
	mockSummaryRepo.AssertExpectations(t)
}

func TestLeaderboard_StreakCappedAtThirty(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: "u1", Username: "relentless", Role: models.RoleStudent, Points: 1},
	}

	rows := make([]models.Progress, 0, 40)
	for i := 0; i < 40; i++ {
		rows = append(rows, models.Progress{
			UserID:    "u1",
			BookID:    int64(i + 1),
			Status:    models.StatusReading,
			UpdatedAt: now.AddDate(0, 0, -i),
		})
	}

	mockUserRepo := new(MockUserRepository)
	mockProgressRepo := new(MockProgressRepository)
	mockSummaryRepo := new(MockSummaryRepository)
	mockUserRepo.On("GetByRoles", mock.Anything, mock.Anything).Return(users, nil)
	mockProgressRepo.On("GetByUsersSince", mock.Anything, mock.Anything, mock.Anything).Return(rows, nil)
	mockSummaryRepo.On("GetByUsersSince", mock.Anything, mock.Anything, mock.Anything).Return([]models.Summary{}, nil)

	svc := &leaderboardService{
		userRepo:     mockUserRepo,
		progressRepo: mockProgressRepo,
		summaryRepo:  mockSummaryRepo,
		cache:        nil,
		now:          func() time.Time { return now },
	}

	board, err := svc.Get(context.Background(), "students", "all", 10)

	assert.NoError(t, err)
	assert.Equal(t, 30, board.Entries[0].ReadingStreak)
}

func TestLeaderboard_InvalidType(t *testing.T) {
	_, _, _, svc := newLeaderboardFixture(nil, nil, nil)

	board, err := svc.Get(context.Background(), "wizards", "all", 10)

	assert.Nil(t, board)
	assert.Equal(t, ErrInvalidLeaderboardType, err)
}

func TestLeaderboard_InvalidPeriod(t *testing.T) {
	_, _, _, svc := newLeaderboardFixture(nil, nil, nil)

	board, err := svc.Get(context.Background(), "students", "decade", 10)

	assert.Nil(t, board)
	assert.Equal(t, ErrInvalidLeaderboardPeriod, err)
}
