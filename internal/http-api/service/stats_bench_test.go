package service

import (
	"testing"
	"time"

	"readhub/internal/http-api/models"
)

// Benchmark fixtures are sized like an active classroom after a school
// year: months of daily activity and a few hundred tracked books.

func benchTimestamps(days, perDay int, now time.Time) []time.Time {
	timestamps := make([]time.Time, 0, days*perDay)
	for d := 0; d < days; d++ {
		day := now.AddDate(0, 0, -d)
		for i := 0; i < perDay; i++ {
			timestamps = append(timestamps, day.Add(-time.Duration(i)*time.Hour))
		}
	}
	return timestamps
}

func benchEvents(n int, now time.Time) []ActivityEvent {
	statuses := []string{models.StatusCompleted, models.StatusReading, models.StatusPaused}
	events := make([]ActivityEvent, 0, n)
	for i := 0; i < n; i++ {
		// Spread over eight months so some events fall outside the window.
		events = append(events, ActivityEvent{
			Time:   now.AddDate(0, 0, -(i % 240)),
			Status: statuses[i%len(statuses)],
		})
	}
	return events
}

func benchProgressRows(n int) []models.Progress {
	book := &models.Book{Pages: 320}
	rows := make([]models.Progress, 0, n)
	for i := 0; i < n; i++ {
		row := models.Progress{BookID: int64(i + 1), TotalPages: 280}
		switch i % 4 {
		case 0:
			row.Status = models.StatusCompleted
			row.Book = book
		case 1:
			row.Status = models.StatusCompleted
		case 2:
			row.Status = models.StatusReading
		default:
			row.Status = models.StatusPaused
		}
		rows = append(rows, row)
	}
	return rows
}

func BenchmarkReadingStreak(b *testing.B) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	timestamps := benchTimestamps(180, 3, now)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ReadingStreak(timestamps, now)
	}
}

func BenchmarkMonthlyBuckets(b *testing.B) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	events := benchEvents(2400, now)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MonthlyBuckets(events, now)
	}
}

func BenchmarkReduceProgress(b *testing.B) {
	rows := benchProgressRows(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reduceProgress(rows)
	}
}
