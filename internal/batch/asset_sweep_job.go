package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"invoice-dashboard/internal/infrastructure/monitoring"
	"invoice-dashboard/internal/infrastructure/storage"
)

type AssetStore interface {
	List(ctx context.Context) ([]storage.Asset, error)
	Remove(ctx context.Context, ref string) error
}

type ImageReferences interface {
	ListImageURLs(ctx context.Context) ([]string, error)
}

// AssetSweepJob removes stored customer images that no customer references.
// Images younger than the grace period are kept because their customer row
// may not be committed yet.
type AssetSweepJob struct {
	assets AssetStore
	refs   ImageReferences
	grace  time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewAssetSweepJob(assets AssetStore, refs ImageReferences, grace time.Duration, logger *slog.Logger) *AssetSweepJob {
	if assets == nil || refs == nil || logger == nil {
		panic("AssetSweepJob dependencies cannot be nil")
	}
	return &AssetSweepJob{
		assets: assets,
		refs:   refs,
		grace:  grace,
		now:    time.Now,
		logger: logger.With("job", "AssetSweep"),
	}
}

func (j *AssetSweepJob) Run(ctx context.Context) error {
	startTime := j.now()
	j.logger.InfoContext(ctx, "Starting orphaned asset sweep.")

	// Assets are listed before references so an image committed in between
	// is seen as referenced.
	assets, err := j.assets.List(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list stored assets, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list assets: %w", err)
	}

	urls, err := j.refs.ListImageURLs(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list referenced images, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list image references: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[u] = struct{}{}
	}

	cutoff := startTime.Add(-j.grace)
	var removed, kept, errorCount int
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			j.logger.WarnContext(ctx, "Asset sweep interrupted.", slog.Int("removed", removed), slog.Any("error", err))
			return err
		}
		if _, ok := referenced[asset.Ref]; ok || asset.ModTime.After(cutoff) {
			kept++
			continue
		}

		if err := j.assets.Remove(ctx, asset.Ref); err != nil {
			j.logger.ErrorContext(ctx, "Failed to remove orphaned asset", slog.String("ref", asset.Ref), slog.Any("error", err))
			errorCount++
			continue
		}
		j.logger.DebugContext(ctx, "Removed orphaned asset", slog.String("ref", asset.Ref))
		monitoring.RecordAssetRemoved("sweep")
		removed++
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", j.now().Sub(startTime)),
		slog.Int("assets_total", len(assets)),
		slog.Int("assets_removed", removed),
		slog.Int("assets_kept", kept),
		slog.Int("errors_encountered", errorCount),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Orphaned asset sweep finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount)
	}
	summaryLog.InfoContext(ctx, "Orphaned asset sweep finished successfully.")
	return nil
}
