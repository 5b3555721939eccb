package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Input.Roots) == 0 {
		cfg.Input.Roots = []string{"."}
	}
	if len(cfg.Input.Extensions) == 0 {
		cfg.Input.Extensions = []string{".smali"}
	}
	for i, ext := range cfg.Input.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Input.Extensions[i] = ext
	}

	if strings.TrimSpace(cfg.Output.Mode) == "" {
		cfg.Output.Mode = OutputStdout
	}
	cfg.Output.Mode = strings.ToLower(strings.TrimSpace(cfg.Output.Mode))
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = "hooks"
	}
	if strings.TrimSpace(cfg.Output.BundleFile) == "" {
		cfg.Output.BundleFile = "hooks.js"
	}

	if cfg.Generate.Workers <= 0 {
		cfg.Generate.Workers = defaultWorkers()
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.Rate <= 0 {
		cfg.Watch.Rate = 1
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "data/state/history.db"
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "smalihook"
	}
}
