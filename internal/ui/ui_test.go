package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/logging"
	"taskpad/internal/task"
	"taskpad/internal/view"
)

func newTestModel(t *testing.T, titles ...string) (Model, *task.Store) {
	t.Helper()
	store := task.Open(filepath.Join(t.TempDir(), "tasks.json"), logging.Discard())
	for _, title := range titles {
		if _, err := store.Create(title, ""); err != nil {
			t.Fatalf("seeding %q: %v", title, err)
		}
	}
	return New(store, logging.Discard(), view.FilterPending), store
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return next
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestAddFlowCreatesTask(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, keyRune('a'))
	if m.mode != modeEditor {
		t.Fatal("'a' should open the editor")
	}
	if m.editingID != "" {
		t.Fatal("add flow should not carry an editing id")
	}

	m = typeText(t, m, "Buy milk")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeList {
		t.Error("successful submit should close the editor")
	}
	if m.title.Value() != "" || m.desc.Value() != "" {
		t.Error("successful submit should clear the form")
	}
	if len(store.Tasks()) != 1 || store.Tasks()[0].Title != "Buy milk" {
		t.Errorf("store: %+v", store.Tasks())
	}
	if len(m.visible) != 1 {
		t.Errorf("visible: %d tasks, want 1", len(m.visible))
	}
}

func TestEditorRejectsEmptyTitleSilently(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, keyRune('a'))
	m = typeText(t, m, "   ")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeEditor {
		t.Error("editor should stay open on validation failure")
	}
	if m.title.Value() != "   " {
		t.Errorf("field cleared on validation failure: %q", m.title.Value())
	}
	if len(store.Tasks()) != 0 {
		t.Errorf("store mutated: %+v", store.Tasks())
	}
}

func TestCancelClosesEditorWithoutMutation(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, keyRune('a'))
	m = typeText(t, m, "half-typed")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeList {
		t.Error("esc should close the editor")
	}
	if len(store.Tasks()) != 0 {
		t.Errorf("cancel created a task: %+v", store.Tasks())
	}
}

func TestEditFlowPreloadsAndUpdates(t *testing.T) {
	m, store := newTestModel(t)
	seeded, err := store.Create("Buy milk", "2 liters")
	if err != nil {
		t.Fatal(err)
	}
	m.refresh()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeEditor || m.editingID != seeded.ID {
		t.Fatalf("edit open: mode %v editingID %q", m.mode, m.editingID)
	}
	if m.title.Value() != "Buy milk" || m.desc.Value() != "2 liters" {
		t.Fatalf("form not preloaded: %q / %q", m.title.Value(), m.desc.Value())
	}

	m = typeText(t, m, " today")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeList {
		t.Error("submit should close the editor")
	}
	got := store.Tasks().Get(seeded.ID)
	if got == nil || got.Title != "Buy milk today" {
		t.Errorf("update not applied: %+v", got)
	}
	if got.CreatedAt != seeded.CreatedAt {
		t.Error("edit changed createdAt")
	}
}

func TestEditorTabReachesDescription(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, keyRune('a'))
	m = typeText(t, m, "Water plants")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "balcony only")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.mode != modeList {
		t.Fatal("ctrl+s should submit from the description field")
	}
	tasks := store.Tasks()
	if len(tasks) != 1 || tasks[0].Description != "balcony only" {
		t.Errorf("description lost: %+v", tasks)
	}
}

func TestDeleteOnlyProceedsOnConfirmation(t *testing.T) {
	m, store := newTestModel(t, "Buy milk")

	m = press(t, m, keyRune('d'))
	if m.mode != modeConfirm {
		t.Fatal("'d' should ask for confirmation")
	}

	// Keys other than y/n/esc are ignored.
	m = press(t, m, keyRune('z'))
	if m.mode != modeConfirm {
		t.Fatal("stray key should not leave the confirmation")
	}

	m = press(t, m, keyRune('n'))
	if m.mode != modeList {
		t.Error("'n' should return to the list")
	}
	if len(store.Tasks()) != 1 {
		t.Fatalf("declined delete removed the task: %+v", store.Tasks())
	}

	m = press(t, m, keyRune('d'))
	m = press(t, m, keyRune('y'))
	if len(store.Tasks()) != 0 {
		t.Errorf("confirmed delete left tasks: %+v", store.Tasks())
	}
	if m.mode != modeList {
		t.Error("confirmed delete should return to the list")
	}
}

func TestDeleteRemovesExactlyTheSelectedTask(t *testing.T) {
	m, store := newTestModel(t, "first", "second", "third")

	// Newest first: cursor 1 selects "second".
	m = press(t, m, keyRune('j'))
	m = press(t, m, keyRune('d'))
	m = press(t, m, keyRune('y'))

	tasks := store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	for _, tk := range tasks {
		if tk.Title == "second" {
			t.Error("wrong task deleted")
		}
	}
}

func TestToggleMovesTaskAcrossFilters(t *testing.T) {
	m, store := newTestModel(t, "Buy milk")

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !store.Tasks()[0].Completed {
		t.Fatal("space should toggle the selected task")
	}
	if len(m.visible) != 0 {
		t.Error("completed task still listed under the pending filter")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.filter != view.FilterCompleted {
		t.Fatal("tab should switch the filter")
	}
	if len(m.visible) != 1 {
		t.Error("completed task missing under the completed filter")
	}
}

func TestFilterNumberKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, keyRune('2'))
	if m.filter != view.FilterCompleted {
		t.Error("'2' should select the completed filter")
	}
	m = press(t, m, keyRune('1'))
	if m.filter != view.FilterPending {
		t.Error("'1' should select the pending filter")
	}
}

func TestSearchFiltersLiveAndKeepsQuery(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk", "Pay rent")

	m = press(t, m, keyRune('/'))
	if !m.searching {
		t.Fatal("'/' should focus the search input")
	}

	m = typeText(t, m, "milk")
	if len(m.visible) != 1 || m.visible[0].Title != "Buy milk" {
		t.Fatalf("live filter: %+v", m.visible)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching {
		t.Error("esc should return focus to the list")
	}
	if m.search.Value() != "milk" {
		t.Error("leaving the search box should keep the query")
	}
	if len(m.visible) != 1 {
		t.Error("query should keep filtering after focus returns")
	}

	// esc in list mode clears the query.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.search.Value() != "" || len(m.visible) != 2 {
		t.Errorf("esc should clear the query: %q, %d visible", m.search.Value(), len(m.visible))
	}
}

func TestCursorClampsToVisible(t *testing.T) {
	m, _ := newTestModel(t, "a", "b", "c")

	m = press(t, m, keyRune('j'))
	m = press(t, m, keyRune('j'))
	m = press(t, m, keyRune('j'))
	m = press(t, m, keyRune('j'))
	if m.cursor != 2 {
		t.Errorf("cursor ran past the end: %d", m.cursor)
	}

	m = press(t, m, keyRune('k'))
	m = press(t, m, keyRune('k'))
	m = press(t, m, keyRune('k'))
	m = press(t, m, keyRune('k'))
	if m.cursor != 0 {
		t.Errorf("cursor ran past the start: %d", m.cursor)
	}
}

func TestViewRendersModalAndConfirm(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk")

	if out := m.View(); out == "" {
		t.Fatal("empty view")
	}

	edit := press(t, m, keyRune('a'))
	if out := edit.View(); out == m.View() {
		t.Error("editor view should differ from the list view")
	}

	confirm := press(t, m, keyRune('d'))
	out := confirm.View()
	if out == "" {
		t.Fatal("empty confirm view")
	}
}
