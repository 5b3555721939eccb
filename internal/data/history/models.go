package history

import "time"

const SchemaVersion = 1

// Run records the outcome of one generation run.
type Run struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Roots      string        `json:"roots"`
	OutputMode string        `json:"output_mode"`
	Discovered int           `json:"discovered"`
	Processed  int           `json:"processed"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Methods    int           `json:"methods"`
	Invalid    int           `json:"invalid"` // scripts that failed syntax verification
	Trigger    string        `json:"trigger"` // "cli", "watch" or "ui"
}
