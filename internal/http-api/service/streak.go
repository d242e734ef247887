package service

import "time"

// ReadingStreak counts consecutive days with reading activity, walking
// backward from today (or yesterday, so a streak survives until the end of
// the current day). Returns 0 when the last activity is older than that.
//
// timestamps are any progress-update times for the user, unordered and
// possibly several per day. Days are compared in now's location.
func ReadingStreak(timestamps []time.Time, now time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}

	loc := now.Location()
	days := make(map[int64]bool, len(timestamps))
	for _, ts := range timestamps {
		days[startOfDay(ts.In(loc)).Unix()] = true
	}

	start := startOfDay(now)
	if !days[start.Unix()] {
		start = start.AddDate(0, 0, -1)
		if !days[start.Unix()] {
			return 0
		}
	}

	streak := 0
	for d := start; days[d.Unix()]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
