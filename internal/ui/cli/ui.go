package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	coreapp "smalihook/internal/core/app"
	"smalihook/internal/core/ports"
	"smalihook/internal/engine/frida"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	focusedPreviewStyle = previewStyle.
				BorderForeground(lipgloss.Color("#3B82F6"))
)

type item struct {
	title, desc string
	pos         int // index into model.scripts
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type focus int

const (
	focusList focus = iota
	focusPreview
)

type model struct {
	classList list.Model
	preview   viewport.Model
	focus     focus
	rerun     func() error

	scripts    []ports.GeneratedScript
	previewPos int
	runID      string
	discovered int
	skipped    int
	failed     int
	duration   time.Duration
	lastUpdate time.Time
	status     string
}

type updateMsg struct {
	runID      string
	scripts    []ports.GeneratedScript
	discovered int
	skipped    int
	failed     int
	duration   time.Duration
}

type rerunResultMsg struct {
	err error
}

func newUpdateMsg(r coreapp.Report) updateMsg {
	return updateMsg{
		runID:      r.RunID,
		scripts:    r.Scripts,
		discovered: r.Discovered,
		skipped:    len(r.Skipped),
		failed:     len(r.Failed),
		duration:   r.Duration,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		listWidth := width * 2 / 5
		m.classList.SetSize(listWidth, height)
		fh, fv := previewStyle.GetFrameSize()
		m.preview.Width = width - listWidth - fh - 1
		m.preview.Height = height - fv
		return m, nil
	case updateMsg:
		m.runID = msg.runID
		m.scripts = msg.scripts
		m.discovered = msg.discovered
		m.skipped = msg.skipped
		m.failed = msg.failed
		m.duration = msg.duration
		m.lastUpdate = time.Now()

		items := make([]list.Item, 0, len(m.scripts))
		for i, s := range m.scripts {
			desc := fmt.Sprintf("%s | %d methods | %s", frida.Alias(s.Index), s.Methods, filepath.Base(s.Path))
			if len(s.Issues) > 0 {
				desc += fmt.Sprintf(" | %d syntax issues", len(s.Issues))
			}
			items = append(items, item{title: s.ClassName, desc: desc, pos: i})
		}
		cmd := m.classList.SetItems(items)
		m = syncPreview(m, true)
		return m, cmd
	case rerunResultMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Regeneration failed: %v", msg.err))
		} else {
			m.status = statusStyle.Render("Regenerated.")
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusPreview {
		m.preview, cmd = m.preview.Update(msg)
	} else {
		m.classList, cmd = m.classList.Update(msg)
	}
	return m, cmd
}

// syncPreview loads the selected script into the preview pane. The scroll
// position is kept unless the selection changed or force is set.
func syncPreview(m model, force bool) model {
	pos := -1
	if selected, ok := m.classList.SelectedItem().(item); ok {
		pos = selected.pos
	}
	if pos == m.previewPos && !force {
		return m
	}
	m.previewPos = pos
	if pos < 0 || pos >= len(m.scripts) {
		m.preview.SetContent(statusStyle.Render("No script selected."))
		return m
	}

	s := m.scripts[pos]
	var b strings.Builder
	b.WriteString(s.Script)
	for _, issue := range s.Issues {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("! " + issue.String()))
	}
	m.preview.SetContent(b.String())
	m.preview.GotoTop()
	return m
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %.2f s",
		m.lastUpdate.Format("15:04:05"), m.duration.Seconds()))

	summary := successStyle.Render(fmt.Sprintf("Processed classes: %d / %d", len(m.scripts), m.discovered))
	if m.failed > 0 {
		summary += " | " + errorStyle.Render(fmt.Sprintf("%d failed", m.failed))
	}
	if m.skipped > 0 {
		summary += " | " + warnStyle.Render(fmt.Sprintf("%d skipped", m.skipped))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Frida Hook Generator"), status, summary)

	pane := previewStyle
	if m.focus == focusPreview {
		pane = focusedPreviewStyle
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.classList.View(), " ", pane.Render(m.preview.View()))
	if m.status != "" {
		body += "\n" + m.status
	}

	return docStyle.Render(header + "\n" + renderHelp(m) + "\n\n" + body)
}

func renderHelp(m model) string {
	keys := "Keys: tab/enter preview | / filter | r regenerate | q quit"
	if m.focus == focusPreview {
		keys = "Keys: tab/esc classes | up/down scroll | r regenerate | q quit"
	}
	return statusStyle.Render(keys)
}

func initialModel(rerun func() error) model {
	classList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	classList.Title = "Hooked Classes"
	classList.SetShowStatusBar(false)
	classList.SetFilteringEnabled(true)

	preview := viewport.New(0, 0)
	preview.SetContent(statusStyle.Render("Waiting for the first run."))

	return model{
		classList:  classList,
		preview:    preview,
		focus:      focusList,
		rerun:      rerun,
		previewPos: -1,
		lastUpdate: time.Now(),
	}
}
