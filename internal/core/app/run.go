package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"smalihook/internal/core/errors"
	"smalihook/internal/core/ports"
	"smalihook/internal/data/history"
	"smalihook/internal/engine/descriptor"
	"smalihook/internal/engine/frida"
	"smalihook/internal/engine/smali"
	"smalihook/internal/shared/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TriggerCLI   = "cli"
	TriggerWatch = "watch"
	TriggerUI    = "ui"
)

// Run discovers, scans and renders every unit under the input roots and hands
// the scripts to the sink. Unit indices follow discovery order and count only
// units that produced a script. Unreadable units are reported in
// Report.Failed and do not abort the run.
func (a *App) Run(ctx context.Context, trigger string) (Report, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "app.Run", trace.WithAttributes(attribute.String("trigger", trigger)))
	defer span.End()

	start := time.Now()
	report := Report{
		RunID:     uuid.New().String(),
		Trigger:   trigger,
		StartedAt: start.UTC(),
	}

	fail := func(err error) (Report, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		report.Duration = time.Since(start)
		return report, err
	}

	roots, err := a.resolveRoots()
	if err != nil {
		return fail(err)
	}
	files, err := a.Discover(roots)
	if err != nil {
		return fail(err)
	}
	report.Discovered = len(files)
	observability.UnitsDiscoveredTotal.Add(float64(len(files)))
	span.SetAttributes(attribute.Int("units.discovered", len(files)))

	scanned := make([]scannedUnit, len(files))
	if err := forEach(ctx, len(files), a.Config.Generate.Workers, func(i int) {
		scanned[i] = a.scanUnit(files[i])
	}); err != nil {
		return fail(err)
	}

	scripts := make([]ports.GeneratedScript, 0, len(scanned))
	methods := make([][]smali.MethodEntry, 0, len(scanned))
	for _, s := range scanned {
		switch {
		case s.err != nil:
			slog.Warn("skipping unreadable unit", "path", s.path, "error", s.err)
			report.Failed = append(report.Failed, Skip{Path: s.path, Reason: s.reason, Err: s.err})
			observability.UnitsSkippedTotal.WithLabelValues(s.reason).Inc()
		case s.reason != "":
			slog.Debug("skipping unit", "path", s.path, "reason", s.reason)
			report.Skipped = append(report.Skipped, Skip{Path: s.path, Reason: s.reason})
			observability.UnitsSkippedTotal.WithLabelValues(s.reason).Inc()
		default:
			scripts = append(scripts, ports.GeneratedScript{
				Index:     len(scripts),
				Path:      s.path,
				Class:     s.unit.Class,
				ClassName: descriptor.ClassName(s.unit.Class),
				Methods:   len(s.unit.Methods),
			})
			methods = append(methods, s.unit.Methods)
		}
	}

	if err := forEach(ctx, len(scripts), a.Config.Generate.Workers, func(i int) {
		a.render(&scripts[i], methods[i])
	}); err != nil {
		return fail(err)
	}
	report.Scripts = scripts

	if err := a.sink.Write(ctx, scripts); err != nil {
		return fail(errors.AddContext(errors.Wrap(err, errors.CodeIO, "write scripts"), errors.CtxOperation, a.Config.Output.Mode))
	}

	report.Duration = time.Since(start)
	observability.RunDuration.Observe(report.Duration.Seconds())
	observability.UnitsProcessedTotal.Add(float64(report.Processed()))
	observability.MethodsHookedTotal.Add(float64(report.MethodCount()))
	span.SetAttributes(
		attribute.Int("units.processed", report.Processed()),
		attribute.Int("units.skipped", len(report.Skipped)),
		attribute.Int("units.failed", len(report.Failed)),
	)

	a.recordHistory(report, roots)
	a.publish(report)
	return report, nil
}

func (a *App) render(s *ports.GeneratedScript, methods []smali.MethodEntry) {
	start := time.Now()
	s.Script = frida.Generate(s.Class, s.Index, methods)
	observability.UnitDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())

	if a.verifier == nil {
		return
	}
	start = time.Now()
	issues, err := a.verifier.Check(s.Script)
	observability.UnitDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("script verification failed", "class", s.ClassName, "error", err)
		return
	}
	if len(issues) > 0 {
		s.Issues = issues
		observability.ScriptSyntaxIssuesTotal.Inc()
		slog.Warn("generated script has syntax issues", "class", s.ClassName, "path", s.Path, "first", issues[0].String(), "count", len(issues))
	}
}

func (a *App) recordHistory(report Report, roots []string) {
	if a.history == nil {
		return
	}
	_, err := a.history.SaveRun(history.Run{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		Duration:   report.Duration,
		Roots:      strings.Join(roots, string(listSeparator)),
		OutputMode: a.Config.Output.Mode,
		Discovered: report.Discovered,
		Processed:  report.Processed(),
		Skipped:    len(report.Skipped),
		Failed:     len(report.Failed),
		Methods:    report.MethodCount(),
		Invalid:    report.InvalidCount(),
		Trigger:    report.Trigger,
	})
	if err != nil {
		slog.Warn("failed to record run history", "run", report.RunID, "error", err)
	}
}

const listSeparator = ';'
