package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/jewelen/marketplace-backend/internal/services"
	"github.com/robfig/cron/v3"
)

const runTimeout = 10 * time.Minute

// Scheduler re-imports registered supplier feeds on a cron schedule.
type Scheduler struct {
	cron  *cron.Cron
	feeds *services.FeedService
}

func NewScheduler(feeds *services.FeedService) *Scheduler {
	return &Scheduler{cron: cron.New(), feeds: feeds}
}

// Start registers the sync job and begins the schedule. The spec uses
// standard cron syntax or descriptors like @hourly.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.syncFeeds); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("feed sync scheduled", "spec", spec)
	return nil
}

// Stop halts the schedule and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) syncFeeds() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	failures, err := s.feeds.RunDue(ctx)
	if err != nil {
		slog.Error("feed sync failed", "error", err)
		return
	}
	slog.Info("feed sync complete", "failures", failures, "duration", time.Since(start).String())
}
