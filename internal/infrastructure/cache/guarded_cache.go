package cache

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"invoice-dashboard/internal/domain/report"
)

// GuardedViewCache wraps a ViewCache so a failed invalidation never leaves
// stale views readable. Invalidate is retried once; if it still fails the
// paths are marked dirty and every read skips the cache until a later
// invalidation of those paths succeeds.
type GuardedViewCache struct {
	inner  ViewCache
	logger *slog.Logger

	mu    sync.Mutex
	epoch uint64
	dirty map[string]uint64
}

var _ ViewCache = (*GuardedViewCache)(nil)

func NewGuardedViewCache(inner ViewCache, logger *slog.Logger) *GuardedViewCache {
	if inner == nil {
		panic("inner ViewCache cannot be nil for GuardedViewCache")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedViewCache{
		inner:  inner,
		logger: logger.With("component", "GuardedViewCache"),
		dirty:  make(map[string]uint64),
	}
}

func (g *GuardedViewCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if g.bypass(ctx) {
		return false, nil
	}
	return g.inner.Get(ctx, key, dest)
}

func (g *GuardedViewCache) Snapshot(ctx context.Context, paths ...string) (report.Snapshot, error) {
	return g.inner.Snapshot(ctx, paths...)
}

func (g *GuardedViewCache) Set(ctx context.Context, key string, value any, snap report.Snapshot) error {
	if g.bypass(ctx) {
		return nil
	}
	return g.inner.Set(ctx, key, value, snap)
}

func (g *GuardedViewCache) Invalidate(ctx context.Context, paths ...string) error {
	start := g.begin()
	err := g.inner.Invalidate(ctx, paths...)
	if err != nil {
		g.logger.WarnContext(ctx, "View invalidation failed, retrying", slog.Any("paths", paths), slog.Any("error", err))
		start = g.begin()
		err = g.inner.Invalidate(ctx, paths...)
	}
	if err != nil {
		g.markDirty(paths)
		g.logger.ErrorContext(ctx, "View invalidation failed, bypassing cache until it succeeds", slog.Any("paths", paths), slog.Any("error", err))
		return err
	}
	g.clean(paths, start)
	return nil
}

// Dirty reports the paths whose invalidation is still pending.
func (g *GuardedViewCache) Dirty() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Sorted(maps.Keys(g.dirty))
}

// bypass retries pending invalidations and reports whether the cache must
// still be skipped.
func (g *GuardedViewCache) bypass(ctx context.Context) bool {
	pending := g.Dirty()
	if len(pending) == 0 {
		return false
	}

	start := g.begin()
	if err := g.inner.Invalidate(ctx, pending...); err != nil {
		g.logger.DebugContext(ctx, "Pending view invalidation still failing", slog.Any("paths", pending), slog.Any("error", err))
		return true
	}
	g.clean(pending, start)
	g.logger.InfoContext(ctx, "Pending view invalidation succeeded", slog.Any("paths", pending))
	return len(g.Dirty()) > 0
}

func (g *GuardedViewCache) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.epoch++
	return g.epoch
}

func (g *GuardedViewCache) markDirty(paths []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.epoch++
	for _, p := range paths {
		g.dirty[p] = g.epoch
	}
}

// clean clears paths that failed before the successful attempt started.
func (g *GuardedViewCache) clean(paths []string, start uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range paths {
		if failed, ok := g.dirty[p]; ok && failed < start {
			delete(g.dirty, p)
		}
	}
}
