package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadingStreak(t *testing.T) {
	now := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 8, 25+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		timestamps []time.Time
		want       int
	}{
		{
			name:       "no activity",
			timestamps: nil,
			want:       0,
		},
		{
			name:       "single update today",
			timestamps: []time.Time{day(0, 9)},
			want:       1,
		},
		{
			name:       "yesterday still counts",
			timestamps: []time.Time{day(-1, 22)},
			want:       1,
		},
		{
			name:       "three consecutive days ending today",
			timestamps: []time.Time{day(-2, 8), day(-1, 12), day(0, 7)},
			want:       3,
		},
		{
			name:       "gap resets the walk",
			timestamps: []time.Time{day(-3, 10), day(0, 10)},
			want:       1,
		},
		{
			name:       "last activity two days ago",
			timestamps: []time.Time{day(-2, 10)},
			want:       0,
		},
		{
			name:       "several updates per day count once",
			timestamps: []time.Time{day(0, 6), day(0, 12), day(0, 23), day(-1, 9), day(-1, 21)},
			want:       2,
		},
		{
			name:       "order does not matter",
			timestamps: []time.Time{day(0, 6), day(-4, 1), day(-1, 9), day(-2, 3), day(-3, 5)},
			want:       5,
		},
		{
			name:       "streak anchored on yesterday",
			timestamps: []time.Time{day(-1, 9), day(-2, 9), day(-3, 9)},
			want:       3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadingStreak(tt.timestamps, now))
		})
	}
}

func TestReadingStreak_CrossesMonthBoundary(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	timestamps := []time.Time{
		time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 3, ReadingStreak(timestamps, now))
}

func TestReadingStreak_LateNightThenEarlyMorning(t *testing.T) {
	// 23:59 and 00:01 land on different days and both count.
	now := time.Date(2026, 8, 25, 0, 30, 0, 0, time.UTC)
	timestamps := []time.Time{
		time.Date(2026, 8, 24, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 8, 25, 0, 1, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, ReadingStreak(timestamps, now))
}
