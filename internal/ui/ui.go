package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskfactory/internal/config"
	"taskfactory/internal/task"
	"taskfactory/internal/tracker"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

const (
	gaugeWidth = 20
	stampText  = "◆ COMPLETE"
)

// highlightExpiredMsg arrives HighlightDuration after a toggle.
type highlightExpiredMsg struct {
	h tracker.Highlight
}

type Model struct {
	store  *tracker.Store
	keys   keyMap
	help   help.Model
	input  textinput.Model
	cursor int
	mode   mode
	status string
}

func New(store *tracker.Store, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter task description..."
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		store:  store,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, %s to toggle, '%s' to delete.", cfg.Keys.Add, helpLabel(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
}

func Run(store *tracker.Store, cfg config.Config) error {
	program := tea.NewProgram(New(store, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg)
	case highlightExpiredMsg:
		m.store.ExpireHighlight(msg.h)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.store.SetDraftText("")
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.store.SetDraftText(m.input.Value())
		t, ok := m.store.Submit()
		if !ok {
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.cursor = 0
		m.status = m.afterSave(fmt.Sprintf("Added %q", t.Text))
		return m, nil
	case key.Matches(msg, m.keys.Priority):
		next := m.store.DraftPriority().Next()
		if err := m.store.SetDraftPriority(next); err == nil {
			m.status = "Priority: " + string(next)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.store.SetDraftText(m.input.Value())
		return m, cmd
	}
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.store.View().Visible
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue(m.store.DraftText())
		m.status = fmt.Sprintf("Add mode: type a task, %s for priority, %s to save",
			m.keys.Priority.Help().Key, m.keys.Confirm.Help().Key)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[clampCursor(m.cursor, len(visible))]
		h, ok := m.store.Toggle(t.ID)
		if !ok {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.store.View().Visible))
		m.status = m.afterSave("Toggled task")
		return m, expireHighlight(h)
	case key.Matches(msg, m.keys.Delete):
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[clampCursor(m.cursor, len(visible))]
		if !m.store.Delete(t.ID) {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.store.View().Visible))
		m.status = m.afterSave(fmt.Sprintf("Deleted %q", t.Text))
	case key.Matches(msg, m.keys.FilterNext):
		m.setFilter(m.store.Filter().Next())
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(task.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(task.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(task.FilterCompleted)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) setFilter(f task.Filter) {
	if err := m.store.SetFilter(f); err != nil {
		return
	}
	m.cursor = 0
	m.status = "Filter: " + string(f)
}

// afterSave reports a persistence failure in place of the success text.
func (m Model) afterSave(ok string) string {
	if err := m.store.LastError(); err != nil {
		return errorStyle.Render(fmt.Sprintf("save failed: %v", err))
	}
	return ok
}

func expireHighlight(h tracker.Highlight) tea.Cmd {
	return tea.Tick(tracker.HighlightDuration, func(time.Time) tea.Msg {
		return highlightExpiredMsg{h: h}
	})
}

func (m Model) View() string {
	v := m.store.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render("TASK ") + titleAccent.Render("FACTORY"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("PRODUCTION MANAGEMENT UNIT"))
	b.WriteString("\n\n")

	b.WriteString(gauge{Percent: v.CompletionPercentage, Width: gaugeWidth}.View())
	b.WriteString("  ")
	b.WriteString(counterStyle.Render(fmt.Sprintf("%d/%d", v.CompletedCount, v.TotalCount)))
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if len(v.Visible) == 0 {
		b.WriteString(subtleStyle.Render(m.store.Filter().EmptyText()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(v.Visible))
	}

	b.WriteString("\n")
	b.WriteString(renderStats(v))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString("\nNew unit: ")
		b.WriteString(m.input.View())
		b.WriteString("  priority: ")
		b.WriteString(priorityBadge(m.store.DraftPriority()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(task.Filters))
	for _, f := range task.Filters {
		label := strings.ToUpper(string(f))
		if f == m.store.Filter() {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderTaskList(tasks []task.Task) string {
	highlighted, lit := m.store.Highlighted()
	cur := clampCursor(m.cursor, len(tasks))

	var b strings.Builder
	for i, t := range tasks {
		cursor := " "
		if i == cur && m.mode == modeList {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = doneTextStyle.Render(text)
		}

		body := fmt.Sprintf("%s %s %s  %s  %s", cursor, checkbox, text,
			priorityBadge(t.Priority), subtleStyle.Render("ID: "+t.ShortID()))
		// the stamp only acknowledges completion, not reopening
		if lit && highlighted == t.ID && t.Completed {
			body += "  " + stampStyle.Render(stampText)
		}

		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func renderStats(v task.View) string {
	return subtleStyle.Render(fmt.Sprintf("Total Units %d • In Queue %d • Processed %d",
		v.TotalCount, v.ActiveCount, v.CompletedCount))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
