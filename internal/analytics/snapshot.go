package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"dreamvisualizer/internal/domain"
)

// Snapshot captures the current overview and upserts it as today's (UTC) row.
func (a *Aggregator) Snapshot(ctx context.Context) (domain.DailySnapshot, error) {
	overview, err := a.Overview(ctx)
	if err != nil {
		return domain.DailySnapshot{}, fmt.Errorf("compute overview: %w", err)
	}
	now := a.now().UTC()
	snap := domain.DailySnapshot{
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CapturedAt: now,
		Overview:   overview,
	}
	if err := a.repo.UpsertSnapshot(ctx, snap); err != nil {
		return domain.DailySnapshot{}, err
	}
	return snap, nil
}

// Scheduler runs the daily snapshot job on a cron schedule.
type Scheduler struct {
	agg     *Aggregator
	log     zerolog.Logger
	cron    *cron.Cron
	timeout time.Duration
}

// NewScheduler registers the snapshot job for schedule, a standard five-field cron
// expression evaluated in UTC.
func NewScheduler(agg *Aggregator, schedule string, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		agg:     agg,
		log:     log,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		timeout: 5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	snap, err := s.agg.Snapshot(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("analytics: daily snapshot failed")
		return
	}
	s.log.Info().
		Str("date", snap.Date.Format("2006-01-02")).
		Int64("total_dreams", snap.TotalDreams).
		Int64("active_users_7d", snap.ActiveUsers7d).
		Msg("analytics: daily snapshot stored")
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
