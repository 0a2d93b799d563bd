package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/proposalhub-dev/proposalhub/db"
	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/notify"
)

const sweepInterval = time.Hour

// Scheduler periodically reminds admins about proposals that have been
// sitting in the review queue longer than the configured threshold.
type Scheduler struct {
	notifier  *notify.Notifier
	threshold time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler initializes a new Scheduler instance. The threshold comes from
// REVIEW_REMINDER_HOURS (default 24).
func NewScheduler(notifier *notify.Notifier) *Scheduler {
	hours := 24

	if raw := os.Getenv("REVIEW_REMINDER_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			hours = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		notifier:  notifier,
		threshold: time.Duration(hours) * time.Hour,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the periodic review-queue sweep.
func (s *Scheduler) Start() {
	log.Printf("Starting review reminder scheduler (threshold %s)", s.threshold)

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop gracefully shuts down the sweep loop.
func (s *Scheduler) Stop() {
	log.Println("Stopping review reminder scheduler")
	s.cancel()
}

func (s *Scheduler) sweep() {
	cutoff := time.Now().Add(-s.threshold)

	var pending []models.Proposal

	err := db.DB.
		Where("status IN ? AND updated_at < ?", []models.ProposalStatus{models.StatusSubmitted, models.StatusUnderReview}, cutoff).
		Order("updated_at ASC").
		Find(&pending).Error

	if err != nil {
		log.Printf("Review reminder sweep failed: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	if err := s.notifier.ReviewReminder(pending, s.threshold); err != nil {
		log.Printf("Failed to send review reminder: %v", err)
	}
}
