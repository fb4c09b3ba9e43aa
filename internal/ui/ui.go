// Package ui implements the interactive terminal interface.
//
// The whole application is one screen: the task list with a status filter and
// a search box, an editor overlay shared by add and edit, and a blocking
// delete confirmation. The screen state machine is list -> editor(add) or
// editor(edit) on open, editor -> list on cancel or successful submit, and
// list -> confirm -> list around deletes. There are no other states.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskpad/internal/task"
	"taskpad/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeEditor
	modeConfirm
)

// Model is the bubbletea model for the task screen. All screen state
// (collection, filter, search text, editor state) lives here and changes
// only through Update.
type Model struct {
	store  *task.Store
	logger *log.Logger

	mode      mode
	filter    view.Filter
	search    textinput.Model
	searching bool

	cursor  int
	visible task.List

	// editingID selects between create (empty) and update in the editor.
	editingID string
	title     textinput.Model
	desc      textarea.Model
	descFocus bool

	pendingDelete task.Task

	width  int
	height int
}

// New builds the model over a store, starting on the given filter.
func New(store *task.Store, logger *log.Logger, filter view.Filter) Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/"
	search.CharLimit = 128

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256
	title.Width = 48

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 0
	desc.SetWidth(48)
	desc.SetHeight(5)
	desc.ShowLineNumbers = false

	m := Model{
		store:  store,
		logger: logger,
		filter: filter,
		search: search,
		title:  title,
		desc:   desc,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen.
func Run(ctx context.Context, store *task.Store, logger *log.Logger, filter view.Filter) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := New(store, logger, filter)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = msg.Width - 8
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(msg.String())
		case modeEditor:
			return m.updateEditor(msg)
		default:
			if m.searching {
				return m.updateSearch(msg)
			}
			return m.updateList(msg.String())
		}
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case "a":
		return m.openAdd()
	case "enter", "e":
		if t := m.selected(); t != nil {
			return m.openEdit(*t)
		}
	case " ", "x":
		if t := m.selected(); t != nil {
			if err := m.store.Toggle(t.ID); err != nil {
				m.logger.Warn("toggle failed", "id", t.ID, "err", err)
			}
			m.refresh()
		}
	case "d":
		if t := m.selected(); t != nil {
			m.pendingDelete = *t
			m.mode = modeConfirm
		}
	case "tab":
		m.filter = m.filter.Next()
		m.refresh()
	case "1":
		m.filter = view.FilterPending
		m.refresh()
	case "2":
		m.filter = view.FilterCompleted
		m.refresh()
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		// Keep the query, return focus to the list.
		m.searching = false
		m.search.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m.closeEditor(), nil
	case "tab", "shift+tab":
		m.descFocus = !m.descFocus
		if m.descFocus {
			m.title.Blur()
			cmd := m.desc.Focus()
			return m, cmd
		}
		m.desc.Blur()
		cmd := m.title.Focus()
		return m, cmd
	case "ctrl+s":
		return m.submitEditor()
	case "enter":
		// Enter submits from the title field; in the description it
		// inserts a newline.
		if !m.descFocus {
			return m.submitEditor()
		}
	}

	var cmd tea.Cmd
	if m.descFocus {
		m.desc, cmd = m.desc.Update(msg)
	} else {
		m.title, cmd = m.title.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "y", "Y":
		if err := m.store.Remove(m.pendingDelete.ID); err != nil {
			m.logger.Warn("delete failed", "id", m.pendingDelete.ID, "err", err)
		}
		m.pendingDelete = task.Task{}
		m.mode = modeList
		m.refresh()
	case "n", "N", "esc":
		m.pendingDelete = task.Task{}
		m.mode = modeList
	}
	return m, nil
}

// openAdd opens the editor with cleared fields.
func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.editingID = ""
	m.title.SetValue("")
	m.desc.SetValue("")
	m.descFocus = false
	m.desc.Blur()
	m.mode = modeEditor
	cmd := m.title.Focus()
	return m, cmd
}

// openEdit opens the editor preloaded from the selected task.
func (m Model) openEdit(t task.Task) (tea.Model, tea.Cmd) {
	m.editingID = t.ID
	m.title.SetValue(t.Title)
	m.desc.SetValue(t.Description)
	m.descFocus = false
	m.desc.Blur()
	m.mode = modeEditor
	cmd := m.title.Focus()
	return m, cmd
}

// submitEditor dispatches create or update. Success closes the editor and
// clears the form; an empty title leaves the editor open with the fields
// intact and no message.
func (m Model) submitEditor() (tea.Model, tea.Cmd) {
	var err error
	if m.editingID == "" {
		_, err = m.store.Create(m.title.Value(), m.desc.Value())
	} else {
		err = m.store.Update(m.editingID, m.title.Value(), m.desc.Value())
	}
	if err != nil {
		return m, nil
	}

	m.title.SetValue("")
	m.desc.SetValue("")
	return m.closeEditor(), nil
}

func (m Model) closeEditor() Model {
	m.mode = modeList
	m.editingID = ""
	m.title.Blur()
	m.desc.Blur()
	m.refresh()
	return m
}

// refresh re-derives the visible subset from the collection, the status
// filter, and the search text, then clamps the cursor to it.
func (m *Model) refresh() {
	m.visible = view.Apply(m.store.Tasks(), m.filter, m.search.Value())
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m Model) selected() *task.Task {
	if len(m.visible) == 0 {
		return nil
	}
	t := m.visible[clampCursor(m.cursor, len(m.visible))]
	return &t
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

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
