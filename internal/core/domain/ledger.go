package domain

import (
	"errors"
	"math"
	"sort"
	"time"
)

var (
	ErrNotStarted    = errors.New("no active sankalp")
	ErrDayOutOfRange = errors.New("day number out of range")
	ErrDayNotFound   = errors.New("day record not found")
	ErrFutureDay     = errors.New("future days cannot be marked complete")
)

// Ledger is the aggregate state of one active sankalp: the full day sequence,
// the set of completed day numbers and the started flag. Started == false is
// the pre-start state with no day records at all.
type Ledger struct {
	TotalDays int
	Days      []DayRecord
	Completed map[int]bool
	Started   bool
}

func NewLedger() *Ledger {
	return &Ledger{
		Completed: make(map[int]bool),
	}
}

// Start transitions the ledger from not-started to started with an empty
// completion set. On a generation defect nothing changes.
func (l *Ledger) Start(numDays int, now time.Time) error {
	days, err := GenerateDays(now, numDays)
	if err != nil {
		return err
	}

	l.TotalDays = numDays
	l.Days = days
	l.Completed = make(map[int]bool)
	l.Started = true
	return nil
}

// Reset unconditionally returns the ledger to the not-started, empty state.
func (l *Ledger) Reset() {
	l.TotalDays = 0
	l.Days = nil
	l.Completed = make(map[int]bool)
	l.Started = false
}

func (l *Ledger) dayRecord(day int) *DayRecord {
	for i := range l.Days {
		if l.Days[i].Day == day {
			return &l.Days[i]
		}
	}
	return nil
}

// Toggle flips the day's membership in the completion set. A future day that
// is not already completed is rejected; a day completed while it was still
// future (a snapshot written before a clock or date shift) can still be
// unmarked. This is the only path that mutates the completion set.
func (l *Ledger) Toggle(day int, now time.Time) error {
	if !l.Started {
		return ErrNotStarted
	}
	if day < MinSankalpDays || day > l.TotalDays {
		return ErrDayOutOfRange
	}

	record := l.dayRecord(day)
	if record == nil {
		return ErrDayNotFound
	}

	if IsFuture(record.Date, now) && !l.Completed[day] {
		return ErrFutureDay
	}

	if l.Completed[day] {
		delete(l.Completed, day)
	} else {
		l.Completed[day] = true
	}
	return nil
}

// CompletedDays returns the completion set as a sorted slice.
func (l *Ledger) CompletedDays() []int {
	days := make([]int, 0, len(l.Completed))
	for d := range l.Completed {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// Percentage is the completion rate rounded to a whole number.
func (l *Ledger) Percentage() int {
	if l.TotalDays <= 0 {
		return 0
	}
	return int(math.Round(float64(len(l.Completed)) * 100 / float64(l.TotalDays)))
}

// Reclassify recomputes every day record's temporal flags against now.
func (l *Ledger) Reclassify(now time.Time) {
	for i := range l.Days {
		l.Days[i].Reclassify(now)
	}
}
