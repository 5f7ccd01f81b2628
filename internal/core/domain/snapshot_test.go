package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codescalper/sankalp/internal/core/domain"
)

func TestLedger_SnapshotRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)

	original := startedLedger(t, 7, now)
	require.NoError(t, original.Toggle(1, now))
	original.Completed[4] = true // marked in an earlier session

	snap, err := original.ToSnapshot()
	require.NoError(t, err)

	data, err := snap.Encode()
	require.NoError(t, err)

	decoded, err := domain.DecodeSnapshot(data)
	require.NoError(t, err)

	restored := domain.NewLedger()
	require.NoError(t, restored.FromSnapshot(decoded, now))

	assert.Equal(t, original.TotalDays, restored.TotalDays)
	assert.Equal(t, original.CompletedDays(), restored.CompletedDays())
	require.Len(t, restored.Days, len(original.Days))
	for i := range original.Days {
		assert.True(t, restored.Days[i].Date.Equal(original.Days[i].Date),
			"day %d date must survive the round trip", i+1)
	}
}

func TestLedger_FromSnapshot_RecomputesFlags(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)

	original := startedLedger(t, 7, now)
	snap, err := original.ToSnapshot()
	require.NoError(t, err)

	// Restore two days later: the stored isToday flag on day 1 is stale.
	twoDaysLater := now.AddDate(0, 0, 2)
	restored := domain.NewLedger()
	require.NoError(t, restored.FromSnapshot(snap, twoDaysLater))

	assert.True(t, restored.Days[0].IsPast)
	assert.True(t, restored.Days[1].IsPast)
	assert.True(t, restored.Days[2].IsToday)
	assert.True(t, restored.Days[3].IsFuture)
}

func TestSnapshot_NotStarted(t *testing.T) {
	_, err := domain.NewLedger().ToSnapshot()
	assert.ErrorIs(t, err, domain.ErrNotStarted)
}

func TestLedger_FromSnapshot_Rejections(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)

	validSnapshot := func() *domain.Snapshot {
		snap, err := startedLedger(t, 3, now).ToSnapshot()
		require.NoError(t, err)
		return snap
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Snapshot)
		wantErr error
	}{
		{
			name:    "Version mismatch",
			mutate:  func(s *domain.Snapshot) { s.Version = domain.SnapshotVersion + 1 },
			wantErr: domain.ErrSnapshotVersion,
		},
		{
			name:    "Zero version (field absent)",
			mutate:  func(s *domain.Snapshot) { s.Version = 0 },
			wantErr: domain.ErrSnapshotVersion,
		},
		{
			name:    "Not marked started",
			mutate:  func(s *domain.Snapshot) { s.SankalpStarted = false },
			wantErr: domain.ErrSnapshotCorrupt,
		},
		{
			name:    "Day count does not match totalDays",
			mutate:  func(s *domain.Snapshot) { s.SankalpDays = s.SankalpDays[:2] },
			wantErr: domain.ErrSnapshotCorrupt,
		},
		{
			name:    "totalDays out of range",
			mutate:  func(s *domain.Snapshot) { s.TotalDays = 0; s.SankalpDays = nil },
			wantErr: domain.ErrSnapshotCorrupt,
		},
		{
			name:    "Unparseable date",
			mutate:  func(s *domain.Snapshot) { s.SankalpDays[1].Date = "not-a-date" },
			wantErr: domain.ErrSnapshotCorrupt,
		},
		{
			name:    "Non-contiguous day numbers",
			mutate:  func(s *domain.Snapshot) { s.SankalpDays[1].Day = 9 },
			wantErr: domain.ErrSnapshotCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot()
			tt.mutate(snap)

			l := domain.NewLedger()
			err := l.FromSnapshot(snap, now)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, l.Started, "failed restore must leave the ledger untouched")
			assert.Empty(t, l.Days)
		})
	}
}

func TestLedger_FromSnapshot_FiltersCompleted(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)

	snap, err := startedLedger(t, 5, now).ToSnapshot()
	require.NoError(t, err)
	snap.CompletedDays = []int{0, 1, 3, 99, -2}

	l := domain.NewLedger()
	require.NoError(t, l.FromSnapshot(snap, now))

	assert.Equal(t, []int{1, 3}, l.CompletedDays(), "out-of-range entries are dropped, not fatal")
}

func TestDecodeSnapshot(t *testing.T) {
	t.Run("Mistyped structure fails whole decode", func(t *testing.T) {
		_, err := domain.DecodeSnapshot([]byte(`{"totalDays": "twenty"}`))
		assert.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
	})

	t.Run("Not JSON at all", func(t *testing.T) {
		_, err := domain.DecodeSnapshot([]byte(`garbage{{`))
		assert.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
	})

	t.Run("Junk completedDays entries survive decoding as absent", func(t *testing.T) {
		raw := []byte(`{
			"totalDays": 3,
			"completedDays": ["x", 1.5, 2, null, -3, 1],
			"sankalpDays": [],
			"startDate": "",
			"sankalpStarted": true,
			"version": 1
		}`)

		snap, err := domain.DecodeSnapshot(raw)

		require.NoError(t, err)
		assert.Equal(t, domain.DayNumberList{2, -3, 1}, snap.CompletedDays)
	})

	t.Run("Plain date format accepted on restore", func(t *testing.T) {
		now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)
		snap, err := startedLedger(t, 2, now).ToSnapshot()
		require.NoError(t, err)

		snap.SankalpDays[0].Date = "2025-06-15"
		snap.SankalpDays[1].Date = "2025-06-16"

		l := domain.NewLedger()
		require.NoError(t, l.FromSnapshot(snap, now))
		assert.True(t, l.Days[0].IsToday)
	})
}
