package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// NewsPublisher publishes scheduled articles whose time has come.
type NewsPublisher interface {
	PublishDue(ctx context.Context) (int, error)
}

// Sweeper retries failed asset cleanups.
type Sweeper interface {
	Sweep(ctx context.Context) (resolved, failed int)
}

type Intervals struct {
	OrphanSweep time.Duration
	NewsPublish time.Duration
}

// StartScheduler registers the background jobs and starts them. Both jobs
// run once immediately and then on their interval; a run that overlaps the
// previous one is skipped.
func StartScheduler(sweeper Sweeper, publisher NewsPublisher, every Intervals, logger zerolog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	// Every few minutes: retry orphaned asset deletes
	_, err = sched.NewJob(
		gocron.DurationJob(every.OrphanSweep),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), every.OrphanSweep)
			defer cancel()
			sweeper.Sweep(ctx)
		}),
		gocron.WithName("orphan-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule orphan sweep: %w", err)
	}

	// Every minute: publish scheduled news
	_, err = sched.NewJob(
		gocron.DurationJob(every.NewsPublish),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), every.NewsPublish)
			defer cancel()
			if _, err := publisher.PublishDue(ctx); err != nil {
				logger.Error().Err(err).Msg("news publish job failed")
			}
		}),
		gocron.WithName("news-publish"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule news publishing: %w", err)
	}

	sched.Start()
	logger.Info().
		Dur("orphan_sweep", every.OrphanSweep).
		Dur("news_publish", every.NewsPublish).
		Msg("scheduler started")
	return sched, nil
}
