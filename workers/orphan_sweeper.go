package workers

import (
	"context"

	"github.com/rs/zerolog"

	"tournament-platform/assets"
	"tournament-platform/repository"
)

// DefaultSweepBatch caps how many orphans one sweep retries.
const DefaultSweepBatch = 50

// OrphanSweeper retries the deletion of assets whose cleanup failed earlier.
type OrphanSweeper struct {
	orphans *repository.OrphanStore
	assets  *assets.Manager
	logger  zerolog.Logger
	batch   int
}

func NewOrphanSweeper(orphans *repository.OrphanStore, am *assets.Manager, logger zerolog.Logger) *OrphanSweeper {
	return &OrphanSweeper{
		orphans: orphans,
		assets:  am,
		logger:  logger.With().Str("worker", "orphan-sweep").Logger(),
		batch:   DefaultSweepBatch,
	}
}

// Sweep makes one pass. Orphans that are gone from the store, or deleted now,
// are forgotten; the rest are kept for the next pass.
func (w *OrphanSweeper) Sweep(ctx context.Context) (resolved, failed int) {
	pending, err := w.orphans.Pending(ctx, w.batch)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to load orphaned assets")
		return 0, 0
	}

	for _, o := range pending {
		if err := w.assets.DeleteByName(ctx, o.Folder, o.Name); err != nil {
			failed++
			w.logger.Warn().Err(err).Str("name", o.Name).Int("attempts", o.Attempts+1).Msg("orphan still not deleted")
			if merr := w.orphans.MarkFailed(ctx, o.ID, err); merr != nil {
				w.logger.Error().Err(merr).Str("name", o.Name).Msg("failed to update orphan")
			}
			continue
		}
		if err := w.orphans.Resolve(ctx, o.ID); err != nil {
			w.logger.Error().Err(err).Str("name", o.Name).Msg("failed to resolve orphan")
			continue
		}
		resolved++
	}

	if resolved > 0 || failed > 0 {
		w.logger.Info().Int("resolved", resolved).Int("failed", failed).Msg("orphan sweep finished")
	}
	return resolved, failed
}
