package cli

import (
	"context"
	"errors"

	coreapp "smalihook/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

func runUI(ctx context.Context, app *coreapp.App) error {
	m := initialModel(func() error {
		_, err := app.Run(ctx, coreapp.TriggerUI)
		return err
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	app.SetUpdateHandler(func(report coreapp.Report) {
		p.Send(newUpdateMsg(report))
	})
	defer app.SetUpdateHandler(nil)

	go func() {
		p.Send(newUpdateMsg(app.LastReport()))
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
