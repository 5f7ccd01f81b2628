package domain

import "time"

type ProgressStats struct {
	Started        bool `json:"started"`
	TotalDays      int  `json:"total_days"`
	CompletedCount int  `json:"completed_count"`
	Percentage     int  `json:"percentage"`
	DaysElapsed    int  `json:"days_elapsed"`
	DaysRemaining  int  `json:"days_remaining"`
	CurrentStreak  int  `json:"current_streak"`
	LongestStreak  int  `json:"longest_streak"`
}

// Stats derives progress metrics from the ledger. Streaks run over
// consecutive completed day numbers; the current streak is only alive if it
// reaches today or yesterday.
func (l *Ledger) Stats(now time.Time) ProgressStats {
	stats := ProgressStats{
		Started:        l.Started,
		TotalDays:      l.TotalDays,
		CompletedCount: len(l.Completed),
		Percentage:     l.Percentage(),
	}
	if !l.Started {
		return stats
	}

	elapsed := 0
	todayNumber := 0
	for _, d := range l.Days {
		if !IsFuture(d.Date, now) {
			elapsed++
		}
		if IsToday(d.Date, now) {
			todayNumber = d.Day
		}
	}
	stats.DaysElapsed = elapsed
	stats.DaysRemaining = l.TotalDays - elapsed

	current, longest := completionStreaks(l.CompletedDays(), todayNumber)
	stats.CurrentStreak = current
	stats.LongestStreak = longest
	return stats
}

func completionStreaks(completed []int, todayNumber int) (int, int) {
	if len(completed) == 0 {
		return 0, 0
	}

	longest := 0
	run := 1
	for i := 1; i < len(completed); i++ {
		if completed[i] == completed[i-1]+1 {
			run++
			continue
		}
		if run > longest {
			longest = run
		}
		run = 1
	}
	if run > longest {
		longest = run
	}

	current := 0
	last := completed[len(completed)-1]
	if todayNumber > 0 && last >= todayNumber-1 {
		current = 1
		for i := len(completed) - 1; i > 0; i-- {
			if completed[i] == completed[i-1]+1 {
				current++
			} else {
				break
			}
		}
	}

	return current, longest
}
