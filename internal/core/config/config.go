package config

import (
	"runtime"
	"time"
)

type Config struct {
	Version       int           `toml:"version"`
	Input         Input         `toml:"input"`
	Exclude       Exclude       `toml:"exclude"`
	Filter        Filter        `toml:"filter"`
	Output        Output        `toml:"output"`
	Generate      Generate      `toml:"generate"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Input struct {
	Roots         []string `toml:"roots"`
	Extensions    []string `toml:"extensions"`
	RequireMarker *bool    `toml:"require_marker"` // skip units without a ".class" directive before scanning
}

// MarkerRequired reports whether the ".class" pre-filter is on (default true).
func (i Input) MarkerRequired() bool {
	return i.RequireMarker == nil || *i.RequireMarker
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Filter selects classes by dotted name, e.g. "com.example.**".
type Filter struct {
	IncludeClasses []string `toml:"include_classes"`
	ExcludeClasses []string `toml:"exclude_classes"`
}

const (
	OutputStdout = "stdout"
	OutputFiles  = "files"
	OutputBundle = "bundle"
)

type Output struct {
	Mode       string `toml:"mode"`
	Dir        string `toml:"dir"`
	BundleFile string `toml:"bundle_file"`
	Manifest   bool   `toml:"manifest"`
}

type Generate struct {
	Workers int  `toml:"workers"`
	Verify  bool `toml:"verify"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Rate     float64       `toml:"rate"` // rebuilds per second
	Burst    int           `toml:"burst"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// DefaultConfig returns a configuration with every default applied, used
// when no config file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
