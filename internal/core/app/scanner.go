package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"smalihook/internal/core/errors"
	"smalihook/internal/engine/descriptor"
	"smalihook/internal/engine/smali"
	"smalihook/internal/shared/observability"
	"smalihook/internal/shared/util"
)

type scannedUnit struct {
	path   string
	unit   smali.Unit
	reason string // non-empty when skipped
	err    error  // non-nil when the unit could not be read
}

// resolveRoots validates the configured input roots; each must be a directory.
func (a *App) resolveRoots() ([]string, error) {
	roots := util.UniqueRoots(a.Config.Input.Roots)
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "input root"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			return nil, errors.AddContext(errors.New(errors.CodeValidationError, "input root is not a directory"), errors.CtxPath, root)
		}
	}
	return roots, nil
}

// Discover walks roots and returns the smali files to process, in walk order.
func (a *App) Discover(roots []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				slog.Warn("skipping unreadable path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && util.MatchAny(a.excludeDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !util.HasExtension(path, a.Config.Input.Extensions) {
				return nil
			}
			if util.MatchAny(a.excludeFiles, d.Name()) {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "walk input root"), errors.CtxPath, root)
		}
	}

	return files, nil
}

func (a *App) scanUnit(path string) scannedUnit {
	start := time.Now()
	defer func() {
		observability.UnitDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.AddContext(errors.Wrap(err, errors.CodeIO, "read unit"), errors.CtxPath, path)
		return scannedUnit{path: path, reason: observability.SkipReadFailed, err: err}
	}
	text := string(data)

	if a.Config.Input.MarkerRequired() && !strings.Contains(text, smali.ClassMarker) {
		return scannedUnit{path: path, reason: observability.SkipNoMarker}
	}

	unit, ok := smali.Scan(text)
	if !ok {
		return scannedUnit{path: path, reason: observability.SkipNoClass}
	}
	if !a.classAllowed(descriptor.ClassName(unit.Class)) {
		return scannedUnit{path: path, unit: unit, reason: observability.SkipFiltered}
	}
	return scannedUnit{path: path, unit: unit}
}

func (a *App) classAllowed(className string) bool {
	if len(a.includeClasses) > 0 && !util.MatchAny(a.includeClasses, className) {
		return false
	}
	return !util.MatchAny(a.excludeClasses, className)
}

// forEach runs fn for every index in [0, n) on up to workers goroutines and
// stops handing out work once ctx is done.
func forEach(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return err
}
