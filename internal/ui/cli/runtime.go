package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "smalihook/internal/core/app"
	"smalihook/internal/core/config"
	"smalihook/internal/shared/observability"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("smalihook v%s\n", versionString)
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", opts.configPath)
		return 1
	}
	if cfgPath != "" {
		slog.Debug("loaded config", "path", cfgPath)
	}

	if err := applyOptions(opts, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	config.ResolvePaths(cfg, cwd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	var appOpts []coreapp.Option
	if opts.ui {
		// The terminal UI owns stdout; scripts stay browsable in the preview.
		appOpts = append(appOpts, coreapp.WithStdout(io.Discard))
	}
	app, err := coreapp.New(cfg, appOpts...)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close(context.Background())

	if opts.runs > 0 {
		return listRuns(os.Stdout, app, opts.runs)
	}

	if cfg.Observability.MetricsAddr != "" {
		server := NewObservabilityServer(cfg.Observability.MetricsAddr, coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer server.Stop(context.Background())
	}

	report, err := app.Run(ctx, coreapp.TriggerCLI)
	if err != nil {
		slog.Error("generation failed", "error", err)
		return 1
	}
	if !opts.ui {
		coreapp.PrintSummary(os.Stderr, report)
	}

	if !opts.watch && !opts.ui {
		return 0
	}

	if err := app.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}

	if opts.ui {
		if err := runUI(ctx, app); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	<-ctx.Done()
	return 0
}

// applyOptions layers command line flags over the loaded configuration and
// revalidates the result.
func applyOptions(opts cliOptions, cfg *config.Config) error {
	if len(opts.args) > 1 {
		return fmt.Errorf("expected at most one input root, got %d", len(opts.args))
	}
	if len(opts.args) == 1 {
		cfg.Input.Roots = []string{opts.args[0]}
	}
	if opts.out != "" {
		cfg.Output.Dir = opts.out
		if opts.mode == "" && cfg.Output.Mode == config.OutputStdout {
			cfg.Output.Mode = config.OutputFiles
		}
	}
	if opts.mode != "" {
		cfg.Output.Mode = strings.ToLower(strings.TrimSpace(opts.mode))
	}
	if opts.verify {
		cfg.Generate.Verify = true
	}
	if opts.workers > 0 {
		cfg.Generate.Workers = opts.workers
	}
	if opts.history || opts.runs > 0 {
		cfg.History.Enabled = true
	}
	return config.Validate(cfg)
}

func listRuns(w io.Writer, app *coreapp.App, limit int) int {
	runs, err := app.RecentRuns(limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return 0
	}
	fmt.Fprintf(w, "%-36s  %-19s  %-6s  %9s  %7s  %7s  %8s\n", "RUN", "STARTED", "BY", "PROCESSED", "SKIPPED", "METHODS", "DURATION")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %-6s  %4d/%-4d  %7d  %7d  %7.2fs\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Trigger,
			r.Processed, r.Discovered,
			r.Skipped+r.Failed,
			r.Methods,
			r.Duration.Seconds(),
		)
	}
	return 0
}

func loadConfig(path, cwd string) (*config.Config, string, error) {
	if path != defaultConfigPath {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	for _, candidate := range discoverDefaultConfig(cwd) {
		cfg, err := config.Load(candidate)
		if err == nil {
			return cfg, candidate, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return nil, "", err
	}

	// Flag-only runs need no config file.
	cfg := config.DefaultConfig()
	config.ApplyEnvOverrides(cfg)
	return cfg, "", nil
}

func discoverDefaultConfig(cwd string) []string {
	return []string{
		filepath.Clean(filepath.Join(cwd, defaultConfigPath)),
		filepath.Join(cwd, "smalihook.toml"),
	}
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	// stdout carries generated scripts.
	output := os.Stderr
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "smalihook", "smalihook.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "smalihook", "smalihook.log")
	}

	return "smalihook.log"
}
