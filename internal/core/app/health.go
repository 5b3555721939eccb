package app

import (
	"context"
	"fmt"
	"time"

	"smalihook/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	last := s.app.LastReport()
	switch {
	case last.RunID == "":
		status.Components["generator"] = "no completed run"
	case len(last.Failed) > 0:
		status.Status = "degraded"
		status.Components["generator"] = fmt.Sprintf("%d units failed in run %s", len(last.Failed), last.RunID)
	default:
		status.Components["generator"] = fmt.Sprintf("ok (%d / %d units, %s ago)",
			last.Processed(), last.Discovered, time.Since(last.StartedAt.Add(last.Duration)).Round(time.Second))
	}

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	if s.app.verifier != nil {
		status.Components["verifier"] = "ok"
	} else if s.app.Config.Generate.Verify {
		status.Status = "degraded"
		status.Components["verifier"] = "missing but enabled in config"
	}

	status.Components["heap_mb"] = fmt.Sprintf("%d", util.GetHeapAllocMB())
	return status
}
