package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/task"
	"taskpad/internal/view"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tabActive     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("236")).Padding(0, 1)
	tabInactive   = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Taskpad"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.mode {
	case modeEditor:
		b.WriteString(m.renderEditor())
	case modeConfirm:
		b.WriteString(m.renderList())
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.pendingDelete.Title)))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTabs() string {
	pending := fmt.Sprintf("Pending %d", m.count(view.FilterPending))
	completed := fmt.Sprintf("Completed %d", m.count(view.FilterCompleted))
	if m.filter == view.FilterCompleted {
		return tabInactive.Render(pending) + " " + tabActive.Render(completed)
	}
	return tabActive.Render(pending) + " " + tabInactive.Render(completed)
}

func (m Model) count(f view.Filter) int {
	n := 0
	for _, t := range m.store.Tasks() {
		if t.Completed == (f == view.FilterCompleted) {
			n++
		}
	}
	return n
}

func (m Model) renderList() string {
	var b strings.Builder

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if len(m.visible) == 0 {
		if m.search.Value() != "" {
			b.WriteString(faintStyle.Render("No tasks match."))
		} else if m.filter == view.FilterCompleted {
			b.WriteString(faintStyle.Render("No completed tasks."))
		} else {
			b.WriteString(faintStyle.Render("No pending tasks. Press 'a' to add one."))
		}
		b.WriteString("\n")
		return b.String()
	}

	for i, t := range m.visible {
		cursor := " "
		if i == m.cursor && m.mode == modeList && !m.searching {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		line := fmt.Sprintf("%s %s %s", cursor, checkbox, t.Title)
		switch {
		case t.Completed:
			line = doneStyle.Render(line)
		case i == m.cursor && m.mode != modeEditor && !m.searching:
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if t := m.selected(); t != nil && !m.searching {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(*t))
	}

	return b.String()
}

func (m Model) renderDetail(t task.Task) string {
	var b strings.Builder
	if t.Description != "" {
		b.WriteString(faintStyle.Render(t.Description))
		b.WriteString("\n")
	}
	b.WriteString(faintStyle.Render(fmt.Sprintf("created %s | updated %s",
		formatMillis(t.CreatedAt), formatMillis(t.UpdatedAt))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderEditor() string {
	var b strings.Builder

	label := "Add task"
	if m.editingID != "" {
		label = "Edit task"
	}
	b.WriteString(headerStyle.Render(label))
	b.WriteString("\n\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.desc.View())

	return overlayStyle.Render(b.String()) + "\n"
}

func (m Model) renderFooter() string {
	switch m.mode {
	case modeEditor:
		return faintStyle.Render("tab switch field | enter/ctrl+s save | esc cancel")
	case modeConfirm:
		return faintStyle.Render("y delete | n keep")
	default:
		if m.searching {
			return faintStyle.Render("type to search | enter/esc done")
		}
		return faintStyle.Render("j/k move | a add | enter edit | space toggle | d delete | tab filter | / search | q quit")
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}
