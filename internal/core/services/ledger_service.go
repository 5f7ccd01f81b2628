package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/codescalper/sankalp/internal/core/domain"
	"github.com/codescalper/sankalp/internal/core/workers"
)

// DefaultSnapshotKey is the single well-known slot the ledger persists under.
const DefaultSnapshotKey = "sankalp_data"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Projection is the read-only view handed to the presentation layer.
type Projection struct {
	Started       bool               `json:"started"`
	TotalDays     int                `json:"total_days"`
	Days          []domain.DayRecord `json:"days"`
	CompletedDays []int              `json:"completed_days"`
	Percentage    int                `json:"percentage"`
}

// LedgerService exclusively owns the ledger aggregate. Every successful
// mutation writes the snapshot through to the persistence slot before the
// call returns; the initial Load suppresses writes so a half-restored state
// can never clobber a snapshot that was not yet read.
type LedgerService struct {
	mu     sync.Mutex
	store  domain.SnapshotStore
	clock  domain.Clock
	worker *workers.ReminderWorker
	key    string

	ledger  *domain.Ledger
	loading bool
}

func NewLedgerService(store domain.SnapshotStore, clock domain.Clock, worker *workers.ReminderWorker) *LedgerService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &LedgerService{
		store:  store,
		clock:  clock,
		worker: worker,
		key:    DefaultSnapshotKey,
		ledger: domain.NewLedger(),
	}
}

// ValidateDayCount applies the input rules in order. Blank and unparseable
// input short-circuit; the two range rules are distinct checks so each keeps
// its own message.
func ValidateDayCount(raw string) (int, []FieldError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, []FieldError{{Field: "days", Message: "enter a day count"}}
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, []FieldError{{Field: "days", Message: "enter a valid number"}}
	}

	var fieldErrs []FieldError
	if n < domain.MinSankalpDays {
		fieldErrs = append(fieldErrs, FieldError{Field: "days", Message: "minimum 1 day"})
	}
	if n > domain.MaxSankalpDays {
		fieldErrs = append(fieldErrs, FieldError{Field: "days", Message: "maximum 365 days"})
	}
	if len(fieldErrs) > 0 {
		return 0, fieldErrs
	}

	return n, nil
}

// Load restores the persisted snapshot, if any. It runs to completion before
// the service accepts mutations. A corrupt record is discarded and the
// service stays in the not-started state; only an unreachable backend is an
// error.
func (s *LedgerService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	defer func() { s.loading = false }()

	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return nil
		}
		return fmt.Errorf("ledger service: failed to read snapshot: %w", err)
	}

	snap, err := domain.DecodeSnapshot(raw)
	if err == nil {
		err = s.ledger.FromSnapshot(snap, s.clock.Now())
	}
	if err != nil {
		log.Printf("Discarding invalid sankalp snapshot: %v", err)
		if delErr := s.store.Delete(ctx, s.key); delErr != nil && !errors.Is(delErr, domain.ErrSnapshotNotFound) {
			log.Printf("Failed to purge invalid snapshot: %v", delErr)
		}
		s.ledger.Reset()
	}
	return nil
}

// Start validates raw, generates the day sequence and persists the new
// ledger. Validation failures come back as field errors with no state change;
// a generation defect comes back as an error distinct from bad input.
func (s *LedgerService) Start(ctx context.Context, raw string) (*Projection, []FieldError, error) {
	numDays, fieldErrs := ValidateDayCount(raw)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Start(numDays, s.clock.Now()); err != nil {
		return nil, nil, fmt.Errorf("ledger service: could not start sankalp: %w", err)
	}
	if err := s.save(ctx); err != nil {
		return nil, nil, err
	}

	if s.worker != nil {
		s.worker.Enqueue(workers.ReminderJob{
			Active:    true,
			TotalDays: numDays,
			StartDate: s.ledger.Days[0].Date,
		})
	}

	p := s.projectionLocked()
	return &p, nil, nil
}

// Toggle flips a day's completion and re-persists the ledger.
func (s *LedgerService) Toggle(ctx context.Context, day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Toggle(day, s.clock.Now()); err != nil {
		return err
	}
	return s.save(ctx)
}

// Reset returns the ledger to the not-started state and purges the persisted
// snapshot. An already-empty slot is not an error.
func (s *LedgerService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Reset()

	if !s.loading {
		if err := s.store.Delete(ctx, s.key); err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
			return fmt.Errorf("ledger service: failed to purge snapshot: %w", err)
		}
	}

	if s.worker != nil {
		s.worker.Enqueue(workers.ReminderJob{Active: false})
	}
	return nil
}

func (s *LedgerService) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Started
}

func (s *LedgerService) Projection() Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectionLocked()
}

func (s *LedgerService) Stats() domain.ProgressStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.ledger.Reclassify(now)
	return s.ledger.Stats(now)
}

// projectionLocked must be called with the mutex held. Temporal flags are
// recomputed on every read; classification is relative to now, never frozen.
func (s *LedgerService) projectionLocked() Projection {
	s.ledger.Reclassify(s.clock.Now())

	days := make([]domain.DayRecord, len(s.ledger.Days))
	copy(days, s.ledger.Days)

	return Projection{
		Started:       s.ledger.Started,
		TotalDays:     s.ledger.TotalDays,
		Days:          days,
		CompletedDays: s.ledger.CompletedDays(),
		Percentage:    s.ledger.Percentage(),
	}
}

// save runs with the mutex held, directly after the mutation it persists, so
// writes are strictly ordered behind their mutations. Writes are suppressed
// while the initial load is in flight.
func (s *LedgerService) save(ctx context.Context) error {
	if s.loading {
		return nil
	}

	snap, err := s.ledger.ToSnapshot()
	if err != nil {
		return fmt.Errorf("ledger service: failed to build snapshot: %w", err)
	}
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("ledger service: failed to encode snapshot: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("ledger service: failed to persist snapshot: %w", err)
	}
	return nil
}
