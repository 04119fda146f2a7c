// Package reminder periodically reports how many cards are waiting for
// review. Checks run hourly and only notify inside the configured window.
package reminder

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/voxlearn/vox/internal/infrastructure/config"
	"github.com/voxlearn/vox/internal/usecase"
)

// Reminder runs the hourly due-card check.
type Reminder struct {
	scheduler *gocron.Scheduler
	review    usecase.ReviewUsecase
	logger    *logrus.Logger
	startHour int
	endHour   int
	clock     func() time.Time
}

// New creates a reminder bound to the configured notification window.
func New(review usecase.ReviewUsecase, logger *logrus.Logger, cfg config.ReminderConfig) *Reminder {
	return &Reminder{
		scheduler: gocron.NewScheduler(time.Local),
		review:    review,
		logger:    logger,
		startHour: cfg.StartHour,
		endHour:   cfg.EndHour,
		clock:     time.Now,
	}
}

// Start schedules the hourly check and returns immediately.
func (r *Reminder) Start() error {
	if _, err := r.scheduler.Every(1).Hour().Do(r.check); err != nil {
		return err
	}
	r.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduled checks.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) check() {
	now := r.clock()
	if !r.withinWindow(now.Hour()) {
		r.logger.WithFields(logrus.Fields{
			"hour":  now.Hour(),
			"start": r.startHour,
			"end":   r.endHour,
		}).Debug("outside reminder window, skipping check")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overview, err := r.review.Overview(ctx)
	if err != nil {
		r.logger.WithError(err).Error("failed to count due cards")
		return
	}
	if overview.Due == 0 {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"due": overview.Due,
		"new": overview.New,
	}).Info("cards are waiting for review")
}

func (r *Reminder) withinWindow(hour int) bool {
	return hour >= r.startHour && hour <= r.endHour
}
