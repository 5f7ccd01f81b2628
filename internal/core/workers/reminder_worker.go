package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Notifier delivers a reminder to whatever surface the host provides.
// Delivery is best effort: failures are logged and dropped, never retried.
type Notifier interface {
	Notify(ctx context.Context, deliveryID, message string) error
}

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, deliveryID, message string) error {
	log.Printf("[REMINDER %s] %s", deliveryID, message)
	return nil
}

// ReminderJob carries one started-flag transition. Active=false clears the
// schedule after a reset.
type ReminderJob struct {
	Active    bool
	TotalDays int
	StartDate time.Time
}

// ReminderWorker fires daily reminders for the active sankalp. It only ever
// reads the started transition; it has no handle into the ledger itself.
type ReminderWorker struct {
	notifier Notifier
	interval time.Duration
	jobs     chan ReminderJob
}

func NewReminderWorker(notifier Notifier, interval time.Duration) *ReminderWorker {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReminderWorker{
		notifier: notifier,
		interval: interval,
		jobs:     make(chan ReminderJob, 100),
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Reminder worker started in background...")
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		var active *ReminderJob
		for {
			select {
			case job := <-w.jobs:
				if job.Active {
					active = &job
					w.remind(ctx, job)
				} else {
					active = nil
				}
			case <-ticker.C:
				if active != nil {
					w.remind(ctx, *active)
				}
			case <-ctx.Done():
				log.Println("Reminder worker shutting down...")
				return
			}
		}
	}()
}

func (w *ReminderWorker) Enqueue(job ReminderJob) {
	select {
	case w.jobs <- job:
	default:
		log.Println("Reminder worker queue full! Dropping transition")
	}
}

func (w *ReminderWorker) remind(ctx context.Context, job ReminderJob) {
	day := int(time.Since(job.StartDate).Hours()/24) + 1
	if day < 1 {
		day = 1
	}
	if day > job.TotalDays {
		return
	}

	msg := fmt.Sprintf("Sankalp day %d of %d: keep the commitment going!", day, job.TotalDays)
	if err := w.notifier.Notify(ctx, uuid.NewString(), msg); err != nil {
		log.Printf("Reminder delivery failed: %v", err)
	}
}
