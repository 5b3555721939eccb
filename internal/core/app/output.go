package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"smalihook/internal/core/config"
	"smalihook/internal/core/errors"
	"smalihook/internal/core/ports"
	"smalihook/internal/engine/frida"
	"smalihook/internal/shared/util"
)

const ManifestFile = "manifest.json"

// NewSink builds the script sink selected by cfg.Mode.
func NewSink(cfg config.Output, stdout io.Writer) (ports.ScriptSink, error) {
	switch cfg.Mode {
	case "", config.OutputStdout:
		return &stdoutSink{w: stdout}, nil
	case config.OutputFiles:
		return &filesSink{dir: cfg.Dir, manifest: cfg.Manifest}, nil
	case config.OutputBundle:
		name := cfg.BundleFile
		if name == "" {
			name = "hooks.js"
		}
		return &bundleSink{dir: cfg.Dir, name: name, manifest: cfg.Manifest}, nil
	default:
		return nil, errors.AddContext(errors.New(errors.CodeValidationError, "unknown output mode"), errors.CtxOperation, cfg.Mode)
	}
}

// stdoutSink prints every script followed by a blank line.
type stdoutSink struct {
	w io.Writer
}

func (s *stdoutSink) Write(ctx context.Context, scripts []ports.GeneratedScript) error {
	bw := bufio.NewWriter(s.w)
	for _, script := range scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := bw.WriteString(script.Script + "\n\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// filesSink writes one <package path>/<Class>.js file per unit.
type filesSink struct {
	dir      string
	manifest bool
}

func (s *filesSink) Write(ctx context.Context, scripts []ports.GeneratedScript) error {
	entries := make([]manifestEntry, 0, len(scripts))
	used := make(map[string]bool, len(scripts))

	for _, script := range scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := util.ClassFilePath(script.ClassName)
		if used[rel] {
			// Two units declared the same class.
			rel = strings.TrimSuffix(rel, ".js") + fmt.Sprintf("-%d.js", script.Index)
		}
		used[rel] = true

		target := filepath.Join(s.dir, rel)
		if err := util.WriteStringWithDirs(target, script.Script+"\n", 0o644); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeIO, "write script"), errors.CtxPath, target)
		}
		entries = append(entries, newManifestEntry(script, filepath.ToSlash(rel)))
	}

	if !s.manifest {
		return nil
	}
	return writeManifest(filepath.Join(s.dir, ManifestFile), config.OutputFiles, entries)
}

// bundleSink concatenates every script into a single file.
type bundleSink struct {
	dir      string
	name     string
	manifest bool
}

func (s *bundleSink) Write(ctx context.Context, scripts []ports.GeneratedScript) error {
	var sb strings.Builder
	entries := make([]manifestEntry, 0, len(scripts))
	for _, script := range scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(&sb, "// %s\n", script.ClassName)
		sb.WriteString(script.Script)
		sb.WriteString("\n\n")
		entries = append(entries, newManifestEntry(script, s.name))
	}

	target := filepath.Join(s.dir, s.name)
	if err := util.WriteStringWithDirs(target, sb.String(), 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "write bundle"), errors.CtxPath, target)
	}

	if !s.manifest {
		return nil
	}
	return writeManifest(filepath.Join(s.dir, ManifestFile), config.OutputBundle, entries)
}

type manifest struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Mode        string          `json:"mode"`
	Units       []manifestEntry `json:"units"`
}

type manifestEntry struct {
	Index   int      `json:"index"`
	Alias   string   `json:"alias"`
	Class   string   `json:"class"`
	Source  string   `json:"source"`
	Output  string   `json:"output"`
	Methods int      `json:"methods"`
	Issues  []string `json:"issues,omitempty"`
}

func newManifestEntry(script ports.GeneratedScript, output string) manifestEntry {
	e := manifestEntry{
		Index:   script.Index,
		Alias:   frida.Alias(script.Index),
		Class:   script.ClassName,
		Source:  script.Path,
		Output:  output,
		Methods: script.Methods,
	}
	for _, issue := range script.Issues {
		e.Issues = append(e.Issues, issue.String())
	}
	return e
}

func writeManifest(path, mode string, entries []manifestEntry) error {
	data, err := json.MarshalIndent(manifest{
		GeneratedAt: time.Now().UTC(),
		Mode:        mode,
		Units:       entries,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encode manifest")
	}
	if err := util.WriteFileWithDirs(path, append(data, '\n'), 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "write manifest"), errors.CtxPath, path)
	}
	return nil
}
