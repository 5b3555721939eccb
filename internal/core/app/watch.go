package app

import (
	"context"
	"log/slog"

	"smalihook/internal/core/watcher"
	"smalihook/internal/shared/observability"
	"smalihook/internal/shared/util"
)

// StartWatcher regenerates every script whenever smali files under the input
// roots change. Rebuilds are rate limited by the watch settings and stop when
// ctx is cancelled.
func (a *App) StartWatcher(ctx context.Context) error {
	roots, err := a.resolveRoots()
	if err != nil {
		return err
	}

	limiter := util.NewLimiter(a.Config.Watch.Rate, a.Config.Watch.Burst)
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Input.Extensions,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) { a.HandleChanges(ctx, limiter, paths) },
	)
	if err != nil {
		return err
	}
	if err := w.Watch(roots); err != nil {
		_ = w.Close()
		return err
	}
	a.watcher = w
	slog.Info("watching for changes", "roots", roots)
	return nil
}

// HandleChanges reruns the pipeline for a batch of changed paths.
func (a *App) HandleChanges(ctx context.Context, limiter *util.Limiter, paths []string) {
	if ctx.Err() != nil {
		return
	}
	slog.Debug("changes detected", "count", len(paths), "first", paths[0])

	if limiter != nil && !limiter.Allow(1) {
		observability.WatchRebuildsThrottledTotal.Inc()
		slog.Debug("rebuild throttled")
		if err := limiter.Wait(ctx, 1); err != nil {
			return
		}
	}

	report, err := a.Run(ctx, TriggerWatch)
	if err != nil {
		slog.Error("rebuild failed", "error", err)
		return
	}
	slog.Info("rebuilt hooks",
		"processed", report.Processed(),
		"discovered", report.Discovered,
		"duration", report.Duration,
	)
}
