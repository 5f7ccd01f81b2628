package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// SnapshotVersion tags every persisted record. Any mismatch invalidates the
// whole record: better to reset than to run on corrupt state.
const SnapshotVersion = 1

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotVersion  = errors.New("snapshot version mismatch")
	ErrSnapshotCorrupt  = errors.New("snapshot is structurally invalid")
)

// SnapshotDay is the persisted form of one DayRecord. The temporal flags and
// display strings are written for external readers but are never authoritative
// on restore.
type SnapshotDay struct {
	Date       string `json:"date"`
	Day        int    `json:"day"`
	IsToday    bool   `json:"isToday"`
	IsPast     bool   `json:"isPast"`
	IsFuture   bool   `json:"isFuture"`
	DateString string `json:"dateString"`
	DayName    string `json:"dayName"`
}

type Snapshot struct {
	TotalDays      int           `json:"totalDays"`
	CompletedDays  DayNumberList `json:"completedDays"`
	SankalpDays    []SnapshotDay `json:"sankalpDays"`
	StartDate      string        `json:"startDate"`
	SankalpStarted bool          `json:"sankalpStarted"`
	Version        int           `json:"version"`
}

// DayNumberList tolerates junk in a persisted completion list: entries that
// are not integral numbers are silently dropped instead of failing the whole
// decode. Range filtering happens later, once totalDays is known.
type DayNumberList []int

func (l *DayNumberList) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make([]int, 0, len(raw))
	for _, v := range raw {
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			continue
		}
		out = append(out, int(n))
	}

	*l = out
	return nil
}

func DecodeSnapshot(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return &snap, nil
}

func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

func parseSnapshotDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return NormalizeDate(t), nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
}

// ToSnapshot serializes the ledger. Only a started ledger has a persisted
// form; the pre-start state is represented by the absence of a record.
func (l *Ledger) ToSnapshot() (*Snapshot, error) {
	if !l.Started {
		return nil, ErrNotStarted
	}

	days := make([]SnapshotDay, 0, len(l.Days))
	for _, d := range l.Days {
		days = append(days, SnapshotDay{
			Date:       d.Date.Format(time.RFC3339),
			Day:        d.Day,
			IsToday:    d.IsToday,
			IsPast:     d.IsPast,
			IsFuture:   d.IsFuture,
			DateString: d.DateString,
			DayName:    d.DayName,
		})
	}

	startDate := ""
	if len(l.Days) > 0 {
		startDate = l.Days[0].Date.Format(time.RFC3339)
	}

	return &Snapshot{
		TotalDays:      l.TotalDays,
		CompletedDays:  l.CompletedDays(),
		SankalpDays:    days,
		StartDate:      startDate,
		SankalpStarted: true,
		Version:        SnapshotVersion,
	}, nil
}

// FromSnapshot validates snap and, only on full structural success, replaces
// the ledger state. Day dates are reconstructed from their stored strings and
// every temporal flag is re-derived against now. A version mismatch, a day
// count that does not match totalDays, non-contiguous day numbers or a single
// unparseable date rejects the whole snapshot and leaves the ledger untouched.
// Out-of-range completion entries are dropped, not fatal.
func (l *Ledger) FromSnapshot(snap *Snapshot, now time.Time) error {
	if snap == nil {
		return ErrSnapshotCorrupt
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: got v%d, want v%d", ErrSnapshotVersion, snap.Version, SnapshotVersion)
	}
	if !snap.SankalpStarted {
		return fmt.Errorf("%w: record not marked started", ErrSnapshotCorrupt)
	}
	if snap.TotalDays < MinSankalpDays || snap.TotalDays > MaxSankalpDays {
		return fmt.Errorf("%w: totalDays %d", ErrSnapshotCorrupt, snap.TotalDays)
	}
	if len(snap.SankalpDays) != snap.TotalDays {
		return fmt.Errorf("%w: %d day records for totalDays %d",
			ErrSnapshotCorrupt, len(snap.SankalpDays), snap.TotalDays)
	}

	days := make([]DayRecord, 0, len(snap.SankalpDays))
	for i, sd := range snap.SankalpDays {
		if sd.Day != i+1 {
			return fmt.Errorf("%w: day numbers not contiguous at position %d", ErrSnapshotCorrupt, i)
		}

		date, err := parseSnapshotDate(sd.Date)
		if err != nil || !IsValidDate(date) {
			return fmt.Errorf("%w: bad date %q for day %d", ErrSnapshotCorrupt, sd.Date, sd.Day)
		}

		days = append(days, NewDayRecord(sd.Day, date, now))
	}

	completed := make(map[int]bool)
	for _, d := range snap.CompletedDays {
		if d >= MinSankalpDays && d <= snap.TotalDays {
			completed[d] = true
		}
	}

	l.TotalDays = snap.TotalDays
	l.Days = days
	l.Completed = completed
	l.Started = true
	return nil
}
