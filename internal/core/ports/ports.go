package ports

import (
	"context"

	"smalihook/internal/data/history"
	"smalihook/internal/engine/verify"
)

// HistoryStore abstracts run persistence.
type HistoryStore interface {
	SaveRun(run history.Run) (history.Run, error)
	RecentRuns(limit int) ([]history.Run, error)
	Close() error
}

// ScriptVerifier abstracts syntax checking of generated scripts.
type ScriptVerifier interface {
	Check(script string) ([]verify.Issue, error)
}

// GeneratedScript is one rendered unit handed to a sink.
type GeneratedScript struct {
	Index     int
	Path      string // source smali file
	Class     string // raw descriptor
	ClassName string // dotted
	Methods   int
	Script    string
	Issues    []verify.Issue
}

// ScriptSink receives the scripts of a run in unit-index order.
type ScriptSink interface {
	Write(ctx context.Context, scripts []GeneratedScript) error
}
