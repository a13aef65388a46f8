// Package reminder periodically checks a learner's review queue and nudges
// them when items are due.
package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/logging"
	"github.com/abhisek/lingua/internal/spacedrep"
)

// DueLister returns the review items due now. spacedrep.Scheduler
// implements it.
type DueLister interface {
	Due(ctx context.Context, userID string) ([]spacedrep.ReviewItem, error)
}

// Notifier delivers a reminder that count items are due.
type Notifier interface {
	Notify(userID string, count int) error
}

// WriterNotifier prints reminders as plain lines.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func (n *WriterNotifier) Notify(userID string, count int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	noun := "items"
	if count == 1 {
		noun = "item"
	}
	_, err := fmt.Fprintf(n.W, "[%s] %s: %d review %s due\n",
		time.Now().Format("15:04"), userID, count, noun)
	return err
}

// Reminder runs Check on a fixed interval.
type Reminder struct {
	scheduler *gocron.Scheduler
	lister    DueLister
	notifier  Notifier
	userID    string
	interval  time.Duration
	logger    logrus.FieldLogger
}

// New creates a reminder for one user. It does nothing until Start.
func New(lister DueLister, notifier Notifier, userID string, interval time.Duration, logger logrus.FieldLogger) *Reminder {
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		lister:    lister,
		notifier:  notifier,
		userID:    userID,
		interval:  interval,
		logger:    logging.OrDiscard(logger),
	}
}

// Start schedules the check, running it once immediately, and returns
// without blocking.
func (r *Reminder) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("reminder interval must be positive, got %s", r.interval)
	}
	_, err := r.scheduler.Every(r.interval).Do(func() {
		if _, err := r.Check(ctx); err != nil {
			r.logger.WithError(err).WithField("user_id", r.userID).Error("due check failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule due check: %w", err)
	}
	r.scheduler.StartAsync()
	r.logger.WithFields(logrus.Fields{
		"user_id":  r.userID,
		"interval": r.interval.String(),
	}).Info("reminders started")
	return nil
}

// Stop halts the schedule.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Check counts the user's due items and notifies when there is at least one.
// It returns the count.
func (r *Reminder) Check(ctx context.Context) (int, error) {
	due, err := r.lister.Due(ctx, r.userID)
	if err != nil {
		return 0, fmt.Errorf("list due items: %w", err)
	}
	if len(due) == 0 {
		r.logger.WithField("user_id", r.userID).Debug("nothing due")
		return 0, nil
	}
	if err := r.notifier.Notify(r.userID, len(due)); err != nil {
		return len(due), fmt.Errorf("notify: %w", err)
	}
	return len(due), nil
}
