package domain

import (
	"errors"
	"time"
)

var (
	ErrGenerationMismatch = errors.New("generated day count does not match requested count")
)

const (
	MinSankalpDays = 1
	MaxSankalpDays = 365
)

type DayRecord struct {
	Day        int       `json:"day"`
	Date       time.Time `json:"date"`
	IsToday    bool      `json:"isToday"`
	IsPast     bool      `json:"isPast"`
	IsFuture   bool      `json:"isFuture"`
	DateString string    `json:"dateString"`
	DayName    string    `json:"dayName"`
}

// NormalizeDate truncates t to midnight in its own location.
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func IsValidDate(t time.Time) bool {
	return !t.IsZero()
}

func IsToday(d, now time.Time) bool {
	return NormalizeDate(d).Equal(NormalizeDate(now))
}

func IsPast(d, now time.Time) bool {
	return NormalizeDate(d).Before(NormalizeDate(now))
}

func IsFuture(d, now time.Time) bool {
	return NormalizeDate(d).After(NormalizeDate(now))
}

func NewDayRecord(day int, date, now time.Time) DayRecord {
	r := DayRecord{
		Day:  day,
		Date: NormalizeDate(date),
	}
	r.Reclassify(now)
	return r
}

// Reclassify recomputes the temporal flags and display strings against now.
// Stored flags are never trusted; time has passed since they were written.
func (r *DayRecord) Reclassify(now time.Time) {
	r.IsToday = IsToday(r.Date, now)
	r.IsPast = IsPast(r.Date, now)
	r.IsFuture = IsFuture(r.Date, now)
	r.DateString = r.Date.Format("Jan 2, 2006")
	r.DayName = r.Date.Format("Monday")
}

// GenerateDays builds the ordered day sequence for a sankalp starting today.
// numDays must already be validated to lie in [MinSankalpDays, MaxSankalpDays].
// Calendar arithmetic goes through AddDate, so month and year rollovers are
// handled by the standard library. An offset that yields an invalid date is
// skipped; the resulting length mismatch is reported as a generation defect
// rather than a user-input one.
func GenerateDays(now time.Time, numDays int) ([]DayRecord, error) {
	start := NormalizeDate(now)
	days := make([]DayRecord, 0, numDays)

	for i := 0; i < numDays; i++ {
		date := start.AddDate(0, 0, i)
		if !IsValidDate(date) {
			continue
		}
		days = append(days, NewDayRecord(i+1, date, now))
	}

	if len(days) != numDays {
		return nil, ErrGenerationMismatch
	}

	return days, nil
}
