package cli

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	// Typing into the filter must not trigger shortcuts.
	if m.focus == focusList && m.classList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.classList, cmd = m.classList.Update(msg)
		return syncPreview(m, false), cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.focus == focusList {
			m.focus = focusPreview
		} else {
			m.focus = focusList
		}
		return m, nil
	case "r":
		return m, rerunCmd(m.rerun)
	}

	if m.focus == focusPreview {
		if msg.String() == "esc" {
			m.focus = focusList
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	if msg.String() == "enter" {
		m = syncPreview(m, false)
		m.focus = focusPreview
		return m, nil
	}

	var cmd tea.Cmd
	m.classList, cmd = m.classList.Update(msg)
	return syncPreview(m, false), cmd
}

func rerunCmd(rerun func() error) tea.Cmd {
	if rerun == nil {
		return nil
	}
	return func() tea.Msg {
		return rerunResultMsg{err: rerun()}
	}
}
