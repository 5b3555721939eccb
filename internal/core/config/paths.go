package config

import (
	"path/filepath"
	"strings"
)

// ResolveRelative joins value onto base unless value is already absolute.
func ResolveRelative(base, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Clean(filepath.Join(base, value))
}

// ResolvePaths makes the output directory and history path absolute relative
// to base, typically the working directory.
func ResolvePaths(cfg *Config, base string) {
	cfg.Output.Dir = ResolveRelative(base, cfg.Output.Dir)
	cfg.History.Path = ResolveRelative(base, cfg.History.Path)
}
