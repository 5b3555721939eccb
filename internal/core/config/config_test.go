package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smalihook/internal/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smalihook.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1

[input]
roots = ["./out/smali", "./out/smali_classes2"]
extensions = ["smali"]
require_marker = false

[exclude]
dirs = ["android", "kotlin*"]
files = ["R$*.smali"]

[filter]
include_classes = ["com.example.**"]

[output]
mode = "files"
dir = "hooks"
manifest = true

[generate]
workers = 3
verify = true

[watch]
debounce = "1s"

[history]
enabled = true
path = "state/history.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Input.Roots) != 2 || cfg.Input.Roots[1] != "./out/smali_classes2" {
		t.Errorf("unexpected roots: %v", cfg.Input.Roots)
	}
	if cfg.Input.Extensions[0] != ".smali" {
		t.Errorf("expected extension to be normalized to .smali, got %q", cfg.Input.Extensions[0])
	}
	if cfg.Input.MarkerRequired() {
		t.Error("expected require_marker=false to disable the marker check")
	}
	if cfg.Output.Mode != OutputFiles || !cfg.Output.Manifest {
		t.Errorf("unexpected output: %+v", cfg.Output)
	}
	if cfg.Generate.Workers != 3 || !cfg.Generate.Verify {
		t.Errorf("unexpected generate section: %+v", cfg.Generate)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if !cfg.History.Enabled || cfg.History.Path != "state/history.db" {
		t.Errorf("unexpected history: %+v", cfg.History)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `version = 1`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.Input.Roots) != 1 || cfg.Input.Roots[0] != "." {
		t.Errorf("expected default root '.', got %v", cfg.Input.Roots)
	}
	if !cfg.Input.MarkerRequired() {
		t.Error("expected marker check on by default")
	}
	if cfg.Output.Mode != OutputStdout {
		t.Errorf("expected stdout mode by default, got %q", cfg.Output.Mode)
	}
	if cfg.Generate.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Generate.Workers)
	}
	if cfg.Output.BundleFile != "hooks.js" {
		t.Errorf("expected default bundle file hooks.js, got %q", cfg.Output.BundleFile)
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("nonexistent.toml"); err == nil {
		t.Error("expected error for nonexistent file")
	}
	if _, err := Load(writeConfig(t, "bad = toml = format")); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown mode", "[output]\nmode = \"socket\"", "output.mode"},
		{"manifest on stdout", "[output]\nmanifest = true", "output.manifest"},
		{"bundle path", "[output]\nmode = \"bundle\"\nbundle_file = \"a/b.js\"", "output.bundle_file"},
		{"bad glob", "[filter]\ninclude_classes = [\"com.[a\"]", "filter.include_classes"},
		{"version", "version = 3", "version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Errorf("expected validation code, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %v", tt.wantMsg, err)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SMALIHOOK_OUTPUT_MODE", "bundle")
	t.Setenv("SMALIHOOK_GENERATE_WORKERS", "2")
	t.Setenv("SMALIHOOK_WATCH_DEBOUNCE", "250ms")

	cfg, err := Load(writeConfig(t, `version = 1`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Mode != OutputBundle {
		t.Errorf("expected env to select bundle, got %q", cfg.Output.Mode)
	}
	if cfg.Generate.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Generate.Workers)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %v", cfg.Watch.Debounce)
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := DefaultConfig()
	base := t.TempDir()
	ResolvePaths(cfg, base)
	if cfg.Output.Dir != filepath.Join(base, "hooks") {
		t.Errorf("unexpected output dir %q", cfg.Output.Dir)
	}
	if !filepath.IsAbs(cfg.History.Path) {
		t.Errorf("expected absolute history path, got %q", cfg.History.Path)
	}

	abs := filepath.Join(base, "elsewhere")
	if got := ResolveRelative("/ignored", abs); got != abs {
		t.Errorf("expected absolute path to be kept, got %q", got)
	}
}
