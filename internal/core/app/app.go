package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"smalihook/internal/core/config"
	"smalihook/internal/core/ports"
	"smalihook/internal/core/watcher"
	"smalihook/internal/data/history"
	"smalihook/internal/engine/verify"
	"smalihook/internal/shared/util"

	"github.com/gobwas/glob"
)

// Skip records a unit that produced no script. Err is set only for failures.
type Skip struct {
	Path   string
	Reason string
	Err    error
}

// Report is the outcome of one run.
type Report struct {
	RunID      string
	Trigger    string
	StartedAt  time.Time
	Duration   time.Duration
	Discovered int
	Scripts    []ports.GeneratedScript
	Skipped    []Skip
	Failed     []Skip
}

// Processed is the number of units that produced a script.
func (r Report) Processed() int { return len(r.Scripts) }

func (r Report) MethodCount() int {
	n := 0
	for _, s := range r.Scripts {
		n += s.Methods
	}
	return n
}

// InvalidCount is the number of scripts with syntax issues.
func (r Report) InvalidCount() int {
	n := 0
	for _, s := range r.Scripts {
		if len(s.Issues) > 0 {
			n++
		}
	}
	return n
}

type App struct {
	Config *config.Config

	sink     ports.ScriptSink
	verifier ports.ScriptVerifier
	history  ports.HistoryStore
	stdout   io.Writer

	excludeDirs    []glob.Glob
	excludeFiles   []glob.Glob
	includeClasses []glob.Glob
	excludeClasses []glob.Glob

	runMu sync.Mutex

	updateMu sync.RWMutex
	onUpdate func(Report)
	last     Report

	watcher *watcher.Watcher
}

type Option func(*App)

func WithSink(sink ports.ScriptSink) Option {
	return func(a *App) { a.sink = sink }
}

func WithHistory(store ports.HistoryStore) Option {
	return func(a *App) { a.history = store }
}

func WithVerifier(v ports.ScriptVerifier) Option {
	return func(a *App) { a.verifier = v }
}

// WithStdout redirects the stdout sink, mainly for tests.
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	a := &App{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	var err error
	if a.excludeDirs, err = util.CompileGlobs(cfg.Exclude.Dirs, "exclude dir"); err != nil {
		return nil, err
	}
	if a.excludeFiles, err = util.CompileGlobs(cfg.Exclude.Files, "exclude file"); err != nil {
		return nil, err
	}
	if a.includeClasses, err = util.CompileGlobs(cfg.Filter.IncludeClasses, "include class", '.'); err != nil {
		return nil, err
	}
	if a.excludeClasses, err = util.CompileGlobs(cfg.Filter.ExcludeClasses, "exclude class", '.'); err != nil {
		return nil, err
	}

	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.sink == nil {
		if a.sink, err = NewSink(cfg.Output, a.stdout); err != nil {
			return nil, err
		}
	}
	if a.verifier == nil && cfg.Generate.Verify {
		a.verifier = verify.New()
	}
	if a.history == nil && cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.history = store
	}

	return a, nil
}

// SetUpdateHandler registers fn to receive every completed run report.
func (a *App) SetUpdateHandler(fn func(Report)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = fn
}

// LastReport returns the most recent completed run.
func (a *App) LastReport() Report {
	a.updateMu.RLock()
	defer a.updateMu.RUnlock()
	return a.last
}

func (a *App) publish(report Report) {
	a.updateMu.Lock()
	a.last = report
	fn := a.onUpdate
	a.updateMu.Unlock()

	if fn != nil {
		fn(report)
	}
}

// RecentRuns lists stored runs, newest first.
func (a *App) RecentRuns(limit int) ([]history.Run, error) {
	if a.history == nil {
		return nil, fmt.Errorf("run history is disabled; set history.enabled or pass -history")
	}
	return a.history.RecentRuns(limit)
}

func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			firstErr = err
		}
		a.watcher = nil
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.history = nil
	}
	return firstErr
}
