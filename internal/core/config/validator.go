package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"smalihook/internal/core/errors"

	"github.com/gobwas/glob"
)

// Validate checks cfg after defaults have been applied.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateInput,
		validatePatterns,
		validateOutput,
		validateWatch,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateInput(cfg *Config) error {
	for i, root := range cfg.Input.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("input.roots[%d] must not be empty", i)
		}
	}
	for i, ext := range cfg.Input.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("input.extensions[%d] must not be empty", i)
		}
	}
	return nil
}

func validatePatterns(cfg *Config) error {
	groups := []struct {
		key       string
		patterns  []string
		separator []rune
	}{
		{"exclude.dirs", cfg.Exclude.Dirs, nil},
		{"exclude.files", cfg.Exclude.Files, nil},
		{"filter.include_classes", cfg.Filter.IncludeClasses, []rune{'.'}},
		{"filter.exclude_classes", cfg.Filter.ExcludeClasses, []rune{'.'}},
	}
	for _, g := range groups {
		for i, pattern := range g.patterns {
			if strings.TrimSpace(pattern) == "" {
				return fmt.Errorf("%s[%d] must not be empty", g.key, i)
			}
			if _, err := glob.Compile(pattern, g.separator...); err != nil {
				return fmt.Errorf("%s[%d] %q: %w", g.key, i, pattern, err)
			}
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Mode {
	case OutputStdout:
		if cfg.Output.Manifest {
			return fmt.Errorf("output.manifest requires output.mode files or bundle")
		}
	case OutputFiles:
	case OutputBundle:
		if filepath.Base(cfg.Output.BundleFile) != cfg.Output.BundleFile {
			return fmt.Errorf("output.bundle_file must be a file name, got %q", cfg.Output.BundleFile)
		}
	default:
		return fmt.Errorf("output.mode must be one of: stdout, files, bundle; got %q", cfg.Output.Mode)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}
