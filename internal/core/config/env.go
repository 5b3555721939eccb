package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SMALIHOOK_[SECTION]_[KEY] (e.g., SMALIHOOK_OUTPUT_MODE).
func ApplyEnvOverrides(cfg *Config) {
	// Output
	setEnvString(&cfg.Output.Mode, "SMALIHOOK_OUTPUT_MODE")
	setEnvString(&cfg.Output.Dir, "SMALIHOOK_OUTPUT_DIR")
	setEnvBool(&cfg.Output.Manifest, "SMALIHOOK_OUTPUT_MANIFEST")

	// Generate
	setEnvInt(&cfg.Generate.Workers, "SMALIHOOK_GENERATE_WORKERS")
	setEnvBool(&cfg.Generate.Verify, "SMALIHOOK_GENERATE_VERIFY")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "SMALIHOOK_WATCH_DEBOUNCE")

	// History
	setEnvBool(&cfg.History.Enabled, "SMALIHOOK_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "SMALIHOOK_HISTORY_PATH")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "SMALIHOOK_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "SMALIHOOK_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
